package payment

import (
	"fmt"
	"strings"
	"time"
)

// Order identifiers carried through the gateway use one canonical format:
//
//	pubg_id:<id>-<unix-millis>
//
// The id itself may contain dashes, so the parser splits on the LAST dash
// rather than assuming a fixed field count.
const orderIDPrefix = "pubg_id:"

// BuildOrderID encodes the target account into a gateway order identifier.
func BuildOrderID(pubgID string) string {
	return fmt.Sprintf("%s%s-%d", orderIDPrefix, pubgID, time.Now().UnixMilli())
}

// ParseOrderID extracts the pubg_id from a callback order identifier. The
// input is attacker-observable, so anything that does not match the canonical
// shape is rejected.
func ParseOrderID(orderID string) (string, error) {
	if !strings.HasPrefix(orderID, orderIDPrefix) {
		return "", fmt.Errorf("%w: order_id missing %q prefix", ErrBadPayload, orderIDPrefix)
	}

	rest := strings.TrimPrefix(orderID, orderIDPrefix)
	sep := strings.LastIndex(rest, "-")
	if sep <= 0 {
		return "", fmt.Errorf("%w: order_id missing id segment", ErrBadPayload)
	}

	pubgID := rest[:sep]
	if pubgID == "" {
		return "", fmt.Errorf("%w: empty pubg_id in order_id", ErrBadPayload)
	}
	return pubgID, nil
}
