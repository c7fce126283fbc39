package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"

	"github.com/urfave/cli"

	"evote/internal/auditchain"
	"evote/internal/bulletin/merkle"
	"evote/internal/identity"
	"evote/internal/keys"
	"evote/pkg/platform/secrets"
)

type keyFile struct {
	KeyID          string          `json:"key_id"`
	Algorithm      keys.Algorithm  `json:"algorithm"`
	Modulus        string          `json:"modulus"`
	PublicExponent int             `json:"public_exponent,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	Private        json.RawMessage `json:"private"`
}

func actionKeygen(c *cli.Context) error {
	alg := keys.Algorithm(c.Args().First())
	if !alg.IsValid() {
		return cli.NewExitError("keygen: algorithm must be rsa or paillier", 2)
	}
	m, err := keys.Generate(alg, c.Int("bits"), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("keygen: %w", err)
	}
	priv, err := keys.EncodePrivate(m)
	if err != nil {
		return fmt.Errorf("keygen: %w", err)
	}

	w := c.App.Writer
	if path := c.String("out"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("keygen: %w", err)
		}
		defer f.Close()
		w = f
	}
	return writeJSON(w, keyFile{
		KeyID:          m.ID,
		Algorithm:      m.Algorithm,
		Modulus:        m.ModulusDecimal(),
		PublicExponent: m.PublicExponent,
		CreatedAt:      m.CreatedAt,
		Private:        priv,
	})
}

func actionFingerprint(c *cli.Context) error {
	alg := keys.Algorithm(c.String("alg"))
	if !alg.IsValid() {
		return cli.NewExitError("fingerprint: --alg must be rsa or paillier", 2)
	}
	n, ok := new(big.Int).SetString(c.String("modulus"), 10)
	if !ok || n.Sign() <= 0 {
		return cli.NewExitError("fingerprint: --modulus must be a positive decimal integer", 2)
	}
	_, err := fmt.Fprintln(c.App.Writer, keys.Fingerprint(alg, n))
	return err
}

func actionMerkleRoot(c *cli.Context) error {
	root, err := merkle.Root(c.Args())
	if err != nil {
		return fmt.Errorf("merkle root: %w", err)
	}
	_, err = fmt.Fprintln(c.App.Writer, root)
	return err
}

func actionMerkleVerify(c *cli.Context) error {
	if !merkle.Verify(c.String("leaf"), c.Int("index"), c.StringSlice("path"), c.String("root")) {
		return cli.NewExitError("proof does not match root", 1)
	}
	_, err := fmt.Fprintln(c.App.Writer, "ok")
	return err
}

func actionAuditVerify(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.NewExitError("audit verify: file argument required", 2)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("audit verify: %w", err)
	}
	entries, err := decodeEntries(raw)
	if err != nil {
		return fmt.Errorf("audit verify: %w", err)
	}

	report := auditchain.Check(entries, time.Now().UTC())
	if err := writeJSON(c.App.Writer, report); err != nil {
		return err
	}
	if !report.Intact {
		return cli.NewExitError(fmt.Sprintf("chain broken: %d breaks, %d tampered", len(report.Breaks), len(report.Tampered)), 1)
	}
	return nil
}

// decodeEntries accepts a bare array or the audit-log endpoint's envelope.
func decodeEntries(raw []byte) ([]auditchain.Entry, error) {
	var entries []auditchain.Entry
	if err := json.Unmarshal(raw, &entries); err == nil {
		return entries, nil
	}
	var env struct {
		Entries []auditchain.Entry `json:"entries"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	return env.Entries, nil
}

func actionToken(c *cli.Context) error {
	key := c.String("signing-key")
	if key == "" {
		return cli.NewExitError("token: --signing-key or JWT_SIGNING_KEY required", 2)
	}
	svc := identity.NewJWTService(key, c.String("issuer"), c.String("audience"))
	tok, err := svc.Issue(c.String("subject"), identity.Role(c.String("role")), c.String("email"), c.Duration("ttl"))
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}
	_, err = fmt.Fprintln(c.App.Writer, tok)
	return err
}

func actionAdminToken(c *cli.Context) error {
	tok, err := secrets.Generate()
	if err != nil {
		return err
	}
	hash, err := secrets.Hash(tok)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, map[string]string{"token": tok, "hash": hash})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
