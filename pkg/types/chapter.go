// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ChapterNode is one entry of a nested bookmark outline. Page is 1-based and
// must not exceed the page count of the document it is attached to.
type ChapterNode struct {
	// Title is the label shown in the PDF navigation panel.
	Title string `json:"title" yaml:"title"`

	// Page is the 1-based page the bookmark jumps to.
	Page int `json:"page" yaml:"page"`

	// Children are nested bookmarks, displayed in slice order.
	Children []ChapterNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Count returns the number of nodes in the tree rooted at n, n included.
func (n ChapterNode) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// ChapterEntry pairs a bookmark title with a source PDF for merging.
// The order of entries defines both page order and bookmark order.
type ChapterEntry struct {
	Title string `json:"title" yaml:"title"`
	File  string `json:"file" yaml:"file"`
}
