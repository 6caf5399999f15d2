package drafter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apachepressure/chaser/internal/briefs"
)

const draftInstructions = `You are drafting a professional status-inquiry email to a supplier on behalf of a purchasing team.

Using the purchase order data below, write a concise, courteous email asking the vendor for a status update on each open purchase order. For lines already on shipment, ask for the latest ETA and a tracking or shipment reference. For lines not yet shipped, ask for the expected ship date. Mention each PO number explicitly. Do not invent quantities, dates, or items that are not in the data.

Respond with ONLY a JSON object in this exact form, with no surrounding text:
{"subject": "<email subject>", "body": "<email body>"}`

// buildPrompt renders the instruction block followed by the brief as JSON.
func buildPrompt(b briefs.Brief, sig briefs.Signature) (string, error) {
	payload, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal brief: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(draftInstructions)
	fmt.Fprintf(&sb, "\n\nSign the email as %s, %s.\n\nPurchase order data:\n", sig.Name, sig.Company)
	sb.Write(payload)
	return sb.String(), nil
}
