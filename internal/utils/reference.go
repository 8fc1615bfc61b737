package utils

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const referenceAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateDepositReference creates a unique reference handed to the payment
// gateway when an escrow deposit order is created.
func GenerateDepositReference(internshipID string) string {
	id, err := gonanoid.Generate(referenceAlphabet, 12)
	if err != nil {
		panic(err)
	}

	return fmt.Sprintf("escrow_%s_%d_%s", internshipID, time.Now().UnixMicro(), id)
}

// GenerateID creates a short random identifier for new records.
func GenerateID() string {
	id, err := gonanoid.Generate(referenceAlphabet, 21)
	if err != nil {
		panic(err)
	}
	return id
}
