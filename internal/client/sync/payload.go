package sync

import (
	"encoding/json"
	"math"

	"github.com/dmitrijs2005/moneylog/internal/client/models"
	"github.com/dmitrijs2005/moneylog/internal/cryptox"
)

// AmountTolerance bounds the difference under which two decimal fields are
// considered equal during merge comparison, absorbing float round-trip
// noise through JSON. The exact value is not load-bearing; it only needs to
// be far below one cent.
const AmountTolerance = 0.001

// wireRecord is the plaintext payload behind each encrypted token. The
// short key names are part of the cross-device format. Nature and
// obligation amount were added later; tokens written by older devices omit
// them and decode as NORMAL / 0.
type wireRecord struct {
	OriginalText     string  `json:"o"`
	Amount           float64 `json:"a"`
	Description      string  `json:"d"`
	Timestamp        int64   `json:"t"`
	Nature           string  `json:"n,omitempty"`
	ObligationAmount float64 `json:"oa,omitempty"`
}

// encodeRecord serializes and encrypts a transaction for the remote store.
func encodeRecord(t *models.Transaction, secret string) (string, error) {
	payload := wireRecord{
		OriginalText:     t.OriginalText,
		Amount:           t.Amount,
		Description:      t.Description,
		Timestamp:        t.Timestamp,
		Nature:           string(t.Nature),
		ObligationAmount: t.ObligationAmount,
	}
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return cryptox.Encrypt(string(plaintext), secret)
}

// decodeRecord decrypts and parses a remote token. The cipher layer cannot
// tell the two token layouts apart on its own (a legacy token misread as
// IV-prefixed still decrypts to a cleanly padded tail), so every candidate
// plaintext is structurally validated here and the first that parses to a
// usable record wins. The bool result is false when no candidate does;
// callers skip such records and keep the pass going.
func decodeRecord(token, secret string) (*models.Transaction, bool) {
	for _, plaintext := range cryptox.DecryptCandidates(token, secret) {
		var payload wireRecord
		if err := json.Unmarshal([]byte(plaintext), &payload); err != nil {
			continue
		}
		if payload.Timestamp == 0 {
			continue
		}

		nature := models.Nature(payload.Nature)
		if nature == "" {
			nature = models.NatureNormal
		}

		return &models.Transaction{
			OriginalText:     payload.OriginalText,
			Amount:           payload.Amount,
			Description:      payload.Description,
			Timestamp:        payload.Timestamp,
			Nature:           nature,
			ObligationAmount: payload.ObligationAmount,
		}, true
	}
	return nil, false
}

func sameAmount(a, b float64) bool {
	return math.Abs(a-b) < AmountTolerance
}

// contentMatches compares the syncable fields of two copies of a record:
// exact equality for text, tolerance-bounded equality for decimals.
func contentMatches(a, b *models.Transaction) bool {
	return a.OriginalText == b.OriginalText &&
		a.Description == b.Description &&
		a.Nature == b.Nature &&
		sameAmount(a.Amount, b.Amount) &&
		sameAmount(a.ObligationAmount, b.ObligationAmount)
}
