package reactions

import "fmt"

// FormatLikeCount renders a like counter as display text: an invitation when
// nobody has liked the post yet, singular for one, plural otherwise.
func FormatLikeCount(count int) string {
	switch {
	case count <= 0:
		return "Be the first to like this"
	case count == 1:
		return "1 like"
	default:
		return fmt.Sprintf("%d likes", count)
	}
}
