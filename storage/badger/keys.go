package badger

import (
	"encoding/binary"
	"fmt"
)

// Key prefixes for different data types
const (
	paperRecordPrefix = "paprec"
	paperOrderPrefix  = "papord"
	paperOrderSeq     = "papordseq"
)

// makePaperKey generates a key for a paper record by its external id.
func makePaperKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", paperRecordPrefix, id))
}

// makePaperOrderKey generates a key for the fetch-order index.
// Format: prefix:seq
func makePaperOrderKey(seq uint64) []byte {
	prefix := paperOrderPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	buf := make([]byte, prefixSize+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort follows fetch order
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// paperOrderKeyPrefix returns the prefix shared by all fetch-order keys.
func paperOrderKeyPrefix() []byte {
	return []byte(paperOrderPrefix + ":")
}

// paperOrderKeyUpperBound returns a key past every fetch-order key, used as
// the seek target for reverse iteration.
func paperOrderKeyUpperBound() []byte {
	return makePaperOrderKey(^uint64(0))
}
