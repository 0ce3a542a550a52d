package checkout

import (
	"fmt"
	"io"
	"time"

	"github.com/juju/errors"
)

const (
	orderPrefix   = "ORD-"
	suffixLen     = 6
	suffixCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewOrderNumber builds the display number "ORD-" + the low six digits of
// the Unix millisecond clock + six random uppercase alphanumerics. It is a
// label for people, not a key: the store's row id identifies the order.
func NewOrderNumber(now time.Time, random io.Reader) (string, error) {
	suffix := make([]byte, 0, suffixLen)
	// rejection sampling keeps every character equally likely
	limit := byte(256 - 256%len(suffixCharset))
	for len(suffix) < suffixLen {
		buf := make([]byte, suffixLen-len(suffix))
		if _, err := io.ReadFull(random, buf); err != nil {
			return "", errors.Annotate(err, "reading order number entropy")
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			suffix = append(suffix, suffixCharset[int(b)%len(suffixCharset)])
		}
	}
	return fmt.Sprintf("%s%06d%s", orderPrefix, now.UnixMilli()%1_000_000, suffix), nil
}
