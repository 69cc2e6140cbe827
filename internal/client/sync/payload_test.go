package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/moneylog/internal/client/models"
	"github.com/dmitrijs2005/moneylog/internal/cryptox"
)

const testSecret = "0123456789abcdef"

func TestEncodeDecodeRecord_RoundTrip(t *testing.T) {
	in := &models.Transaction{
		OriginalText:     "lent sam 500",
		Amount:           -500,
		Description:      "loan to sam",
		Timestamp:        1700000000000,
		Nature:           models.NatureAsset,
		ObligationAmount: 500,
	}

	token, err := encodeRecord(in, testSecret)
	require.NoError(t, err)

	got, ok := decodeRecord(token, testSecret)
	require.True(t, ok)
	assert.Equal(t, in.OriginalText, got.OriginalText)
	assert.Equal(t, in.Description, got.Description)
	assert.Equal(t, in.Timestamp, got.Timestamp)
	assert.Equal(t, in.Nature, got.Nature)
	assert.InDelta(t, in.Amount, got.Amount, 1e-9)
	assert.InDelta(t, in.ObligationAmount, got.ObligationAmount, 1e-9)
}

func TestDecodeRecord_OldProtocolDefaults(t *testing.T) {
	// Tokens written before the nature/obligation upgrade carry only the
	// original four fields.
	token, err := cryptox.Encrypt(`{"o":"coffee","a":-3.5,"d":"coffee","t":1000}`, testSecret)
	require.NoError(t, err)

	got, ok := decodeRecord(token, testSecret)
	require.True(t, ok)
	assert.Equal(t, models.NatureNormal, got.Nature)
	assert.Zero(t, got.ObligationAmount)
	assert.Equal(t, int64(1000), got.Timestamp)
}

func TestDecodeRecord_LegacyMultiBlockToken(t *testing.T) {
	// Legacy tokens carry no IV prefix. Misreading their first block as an
	// IV still yields cleanly padded output, so the decoder must try both
	// layouts and validate each candidate structurally rather than take the
	// first one that decrypts.
	token, err := cryptox.EncryptLegacy(`{"o":"old record","a":-50,"d":"old","t":1000}`, testSecret)
	require.NoError(t, err)

	got, ok := decodeRecord(token, testSecret)
	require.True(t, ok)
	assert.Equal(t, "old record", got.OriginalText)
	assert.Equal(t, "old", got.Description)
	assert.Equal(t, int64(1000), got.Timestamp)
	assert.InDelta(t, -50.0, got.Amount, 1e-9)
	assert.Equal(t, models.NatureNormal, got.Nature)
}

func TestDecodeRecord_Failures(t *testing.T) {
	// Wrong key or corrupt token.
	token, err := encodeRecord(&models.Transaction{Timestamp: 1000, Nature: models.NatureNormal}, testSecret)
	require.NoError(t, err)
	if got, ok := decodeRecord(token, "completely-different"); ok {
		assert.NotEqual(t, int64(1000), got.Timestamp)
	}

	// Decrypts but is not a record.
	junk, err := cryptox.Encrypt("just some prose", testSecret)
	require.NoError(t, err)
	_, ok := decodeRecord(junk, testSecret)
	assert.False(t, ok)

	// Decrypts to JSON without a timestamp.
	noTS, err := cryptox.Encrypt(`{"o":"x","a":1,"d":"x"}`, testSecret)
	require.NoError(t, err)
	_, ok = decodeRecord(noTS, testSecret)
	assert.False(t, ok)
}

func TestContentMatches_Tolerance(t *testing.T) {
	base := &models.Transaction{
		OriginalText: "x", Description: "x", Timestamp: 1,
		Nature: models.NatureNormal, Amount: -12.5,
	}

	within := *base
	within.Amount = -12.5 + 0.0004
	assert.True(t, contentMatches(base, &within))

	beyond := *base
	beyond.Amount = -12.5 + 0.01
	assert.False(t, contentMatches(base, &beyond))

	text := *base
	text.Description = "y"
	assert.False(t, contentMatches(base, &text))

	nature := *base
	nature.Nature = models.NatureAsset
	assert.False(t, contentMatches(base, &nature))
}
