// Package clip wraps the system clipboard for the yank key (§4.8).
package clip

import "github.com/atotto/clipboard"

// Copy places text on the system clipboard.
func Copy(text string) error {
	return clipboard.WriteAll(text)
}
