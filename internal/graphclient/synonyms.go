package graphclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// SynonymsPath is the gateway resource for synonym lists.
const SynonymsPath = "/resources/synonyms"

// Synonym slots accepted by the gateway.
const (
	SynonymSlotPrimary   = "1"
	SynonymSlotSecondary = "2"
)

// SynonymOptions selects the slot and language routing for an upload. A blank
// Slot means the primary slot.
type SynonymOptions struct {
	Slot            string
	LanguageRouting string
}

// SynonymResult reports an upload outcome. Error is set only when Success is
// false.
type SynonymResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NormalizeSynonymSlot returns the slot to send, or an error for values other
// than "1" and "2".
func NormalizeSynonymSlot(slot string) (string, error) {
	switch strings.TrimSpace(slot) {
	case "", SynonymSlotPrimary:
		return SynonymSlotPrimary, nil
	case SynonymSlotSecondary:
		return SynonymSlotSecondary, nil
	default:
		return "", fmt.Errorf("synonym slot must be %q or %q, got %q", SynonymSlotPrimary, SynonymSlotSecondary, slot)
	}
}

// UploadSynonyms replaces the synonym list in the selected slot with text.
// Empty text clears the slot and is still sent. Both synonym_slot and
// language_routing are always sent; a blank routing goes out empty.
func (c *Client) UploadSynonyms(ctx context.Context, text string, opts SynonymOptions) SynonymResult {
	slot, err := NormalizeSynonymSlot(opts.Slot)
	if err != nil {
		return SynonymResult{Error: err.Error()}
	}

	query := []QueryParam{
		{Key: "synonym_slot", Value: slot},
		{Key: "language_routing", Value: strings.TrimSpace(opts.LanguageRouting)},
	}

	resp, err := c.Request(ctx, SynonymsPath, RequestOptions{
		Method: http.MethodPut,
		Body:   []byte(text),
		Query:  query,
	})
	if err != nil {
		return SynonymResult{Error: errorMessage(err)}
	}
	body, err := readBody(resp)
	if err != nil {
		return SynonymResult{Error: errorMessage(err)}
	}
	if !isSuccess(resp.StatusCode) {
		c.logger.Warn("graph.synonyms.rejected", "status", resp.StatusCode, "slot", slot)
		return SynonymResult{Error: remoteError(resp.StatusCode, body)}
	}

	c.logger.Info("graph.synonyms.uploaded", "slot", slot, "language_routing", opts.LanguageRouting, "lines", countLines(text))
	return SynonymResult{
		Success: true,
		Message: fmt.Sprintf("synonyms uploaded to slot %s", slot),
	}
}

func countLines(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
