package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pigeonhq/pigeon-backend/internal/quote"
)

// snapshotETag fingerprints a snapshot's cart id and item content. Item
// ids are excluded so the tag stays stable across re-quotes that change
// nothing else.
func snapshotETag(snapshot *quote.CartSnapshot) string {
	var b strings.Builder
	b.WriteString(snapshot.CartID)
	for _, item := range snapshot.Items {
		fmt.Fprintf(&b, "|%s:%d:%d", item.ProductID, item.Quantity, item.Price.Amount)
		if item.ListPrice != nil {
			fmt.Fprintf(&b, ":%d", item.ListPrice.Amount)
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return `"` + hex.EncodeToString(sum[:]) + `"`
}
