package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"medibook-service/internal/pkg/constvars"
	"time"

	"github.com/google/uuid"
)

const bookingReferenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.New().String()
}

// GenerateBookingReference returns BK-YYYYMMDD-XXXXXX for the given creation time.
func GenerateBookingReference(createdAt time.Time) (string, error) {
	max := big.NewInt(int64(len(bookingReferenceAlphabet)))

	suffix := make([]byte, constvars.BookingReferenceLength)
	for i := range suffix {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = bookingReferenceAlphabet[num.Int64()]
	}

	return fmt.Sprintf("%s-%s-%s", constvars.BookingReferencePrefix, createdAt.UTC().Format("20060102"), string(suffix)), nil
}

func GenerateExportObjectName(now time.Time, extension string) string {
	return fmt.Sprintf(constvars.BookingExportObjectNameFormat, now.UTC().Format("20060102_150405.000000000"), extension)
}
