// Command votectl is the operator tool: key generation, fingerprints, offline
// board proof checks and audit chain verification of exported entries.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"
)

// Version of this binary.
var Version = "0.1"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "votectl"
	app.Usage = "operate and audit an evote deployment"
	app.Version = Version

	app.Commands = []cli.Command{
		{
			Name:      "keygen",
			Usage:     "generate an rsa or paillier key pair and print it as JSON",
			ArgsUsage: "rsa|paillier",
			Action:    actionKeygen,
			Flags: []cli.Flag{
				cli.IntFlag{Name: "bits", Value: 2048},
				cli.StringFlag{Name: "out", Usage: "write to file instead of stdout"},
			},
		},
		{
			Name:   "fingerprint",
			Usage:  "derive the key id of a public modulus",
			Action: actionFingerprint,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "alg", Value: "rsa"},
				cli.StringFlag{Name: "modulus", Usage: "decimal modulus"},
			},
		},
		{
			Name:  "merkle",
			Usage: "bulletin board tree operations",
			Subcommands: []cli.Command{
				{
					Name:      "root",
					Usage:     "compute the root of leaf hashes in board order",
					ArgsUsage: "[leaf-hash...]",
					Action:    actionMerkleRoot,
				},
				{
					Name:   "verify",
					Usage:  "check an inclusion proof from a receipt",
					Action: actionMerkleVerify,
					Flags: []cli.Flag{
						cli.StringFlag{Name: "leaf"},
						cli.IntFlag{Name: "index"},
						cli.StringSliceFlag{Name: "path", Usage: "sibling hash, repeat in order"},
						cli.StringFlag{Name: "root"},
					},
				},
			},
		},
		{
			Name:  "audit",
			Usage: "admin audit chain operations",
			Subcommands: []cli.Command{
				{
					Name:      "verify",
					Usage:     "verify an exported chain (JSON array or {\"entries\": [...]})",
					ArgsUsage: "[file.json]",
					Action:    actionAuditVerify,
				},
			},
		},
		{
			Name:   "admin-token",
			Usage:  "generate an operator token and the bcrypt hash to configure as ADMIN_API_TOKEN",
			Action: actionAdminToken,
		},
		{
			Name:   "token",
			Usage:  "mint a session token for local testing",
			Action: actionToken,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "subject"},
				cli.StringFlag{Name: "role", Value: "voter"},
				cli.StringFlag{Name: "email"},
				cli.DurationFlag{Name: "ttl", Value: time.Hour},
				cli.StringFlag{Name: "signing-key", EnvVar: "JWT_SIGNING_KEY"},
				cli.StringFlag{Name: "issuer", Value: "evote-identity", EnvVar: "JWT_ISSUER"},
				cli.StringFlag{Name: "audience", Value: "evote", EnvVar: "JWT_AUDIENCE"},
			},
		},
	}
	return app
}
