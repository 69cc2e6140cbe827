package sync

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// StableID maps a record's creation timestamp to its deterministic remote
// key: the MD5 digest of the decimal timestamp string, as lowercase hex.
//
// The id is a pure function of the timestamp so that two devices holding a
// record created at the same instant converge on the same remote key
// without a central sequence allocator. The exact bytes are part of the
// cross-device format and must never change. MD5 is used as a fingerprint
// here, not for security: collision resistance across the record volume of
// one vault is all that is required.
func StableID(timestamp int64) string {
	digest := md5.Sum([]byte(strconv.FormatInt(timestamp, 10)))
	return hex.EncodeToString(digest[:])
}
