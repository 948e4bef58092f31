// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdfdoc

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// writeOutline replaces the outline of ctx with bms. Items are linked in
// slice order and may point at any page, so a later sibling or a child can
// target an earlier page than the item before it.
func writeOutline(ctx *model.Context, bms []pdfcpu.Bookmark) error {
	if _, err := pdfcpu.RemoveBookmarks(ctx); err != nil {
		return fmt.Errorf("removing existing bookmarks: %w", err)
	}

	root, err := ctx.Catalog()
	if err != nil {
		return err
	}

	outlines := types.Dict(map[string]types.Object{"Type": types.Name("Outlines")})
	ir, err := ctx.IndRefForNewObject(outlines)
	if err != nil {
		return err
	}

	first, last, count, err := outlineItems(ctx, bms, *ir)
	if err != nil {
		return err
	}
	outlines["First"] = *first
	outlines["Last"] = *last
	outlines["Count"] = types.Integer(count)

	root["Outlines"] = *ir
	return nil
}

// outlineItems creates one outline item dict per bookmark under parent and
// returns the first and last item plus the number of open descendants.
func outlineItems(ctx *model.Context, bms []pdfcpu.Bookmark, parent types.IndirectRef) (*types.IndirectRef, *types.IndirectRef, int, error) {
	var (
		first, prev *types.IndirectRef
		prevDict    types.Dict
		count       int
	)

	for _, bm := range bms {
		_, pageRef, _, err := ctx.PageDict(bm.PageFrom, false)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("bookmark %q: %w", bm.Title, err)
		}
		if pageRef == nil {
			return nil, nil, 0, fmt.Errorf("bookmark %q: page %d not found", bm.Title, bm.PageFrom)
		}

		title, err := types.EscapedUTF16String(bm.Title)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("bookmark %q: %w", bm.Title, err)
		}

		d := types.Dict(map[string]types.Object{
			"Title":  types.StringLiteral(*title),
			"Parent": parent,
			"Dest":   types.Array{*pageRef, types.Name("Fit")},
		})
		ir, err := ctx.IndRefForNewObject(d)
		if err != nil {
			return nil, nil, 0, err
		}
		count++

		if len(bm.Kids) > 0 {
			kFirst, kLast, kCount, err := outlineItems(ctx, bm.Kids, *ir)
			if err != nil {
				return nil, nil, 0, err
			}
			d["First"] = *kFirst
			d["Last"] = *kLast
			d["Count"] = types.Integer(kCount)
			count += kCount
		}

		if first == nil {
			first = ir
		}
		if prev != nil {
			d["Prev"] = *prev
			prevDict["Next"] = *ir
		}
		prev, prevDict = ir, d
	}

	return first, prev, count, nil
}
