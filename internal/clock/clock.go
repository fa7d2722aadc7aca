// Package clock is an indirection over time.Now so that tests can pin the
// current time.
package clock

import "time"

// NowFunc returns the current time. Tests may override it.
var NowFunc = time.Now

// Now calls NowFunc.
func Now() time.Time { return NowFunc() }
