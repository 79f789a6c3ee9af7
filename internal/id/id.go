// Package id issues order identifiers.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// OrderPrefix marks identifiers issued by NewOrder.
const OrderPrefix = "ORD-"

var (
	mu      sync.Mutex
	entropy io.Reader
)

func init() {
	// seed from crypto/rand; mu guards the monotonic reader
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	entropy = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// NewOrder returns a unique, time-sortable order id such as
// ORD-01J9Z3K4X5W6V7T8S9R0QPNMKH. IDs issued within the same millisecond
// still sort in issue order.
func NewOrder() string {
	mu.Lock()
	defer mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(time.Now().UTC()), entropy)
	if err != nil {
		// only reachable if the monotonic counter overflows within 1ms
		panic(err)
	}
	return OrderPrefix + u.String()
}

// IsOrder reports whether s looks like an id from NewOrder.
func IsOrder(s string) bool {
	rest, ok := strings.CutPrefix(s, OrderPrefix)
	if !ok {
		return false
	}
	_, err := ulid.ParseStrict(rest)
	return err == nil
}
