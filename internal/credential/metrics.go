package credential

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	credentialsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "evote_credentials_issued_total",
		Help: "Blind signatures issued",
	})

	issuanceRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evote_credential_issuance_rejected_total",
		Help: "Blind signature requests rejected, by reason",
	}, []string{"reason"})

	verificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "evote_credential_verification_failures_total",
		Help: "Credentials rejected at spend time, by reason",
	}, []string{"reason"})
)
