package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

var sixDigits = big.NewInt(1_000_000)

func randomSixDigits() (int64, error) {
	n, err := rand.Int(rand.Reader, sixDigits)
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

// GenerateApplicationNumber returns NCIP-YYYY-NNNNNN. Collisions are caught
// by the unique index; callers retry.
func GenerateApplicationNumber(now time.Time) (string, error) {
	n, err := randomSixDigits()
	if err != nil {
		return "", fmt.Errorf("generate application number: %w", err)
	}
	return fmt.Sprintf("NCIP-%04d-%06d", now.Year(), n), nil
}

// GenerateCertificateNumber returns CERT-YYYYMMDD-NNNNNN.
func GenerateCertificateNumber(now time.Time) (string, error) {
	n, err := randomSixDigits()
	if err != nil {
		return "", fmt.Errorf("generate certificate number: %w", err)
	}
	return fmt.Sprintf("CERT-%s-%06d", now.Format("20060102"), n), nil
}

const passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

// GenerateTempPassword returns a random password of n characters drawn from
// an alphabet without look-alike characters.
func GenerateTempPassword(n int) (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		out[i] = passwordAlphabet[idx.Int64()]
	}
	return string(out), nil
}
