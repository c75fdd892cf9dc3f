// Package goid reads the current goroutine's id.
package goid

import "runtime"

// ID extracts the current goroutine id from the runtime stack header
// ("goroutine <id> [...]").
func ID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}
