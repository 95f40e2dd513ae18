/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import "fmt"

// InvalidInputError reports input that cannot be turned into a universe or
// a player record. Line is 1-based and zero when not applicable.
type InvalidInputError struct {
	Line int
	Msg  string
}

func (e *InvalidInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid input: line %d: %s", e.Line, e.Msg)
	}
	return "invalid input: " + e.Msg
}
