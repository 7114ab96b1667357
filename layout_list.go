package h2t

import "strconv"

// listMarker returns the marker of the item with ordinal i, counting items
// only.
func listMarker(list *RenderNode, i int) string {
	if list.Ordered {
		return strconv.Itoa(list.Start+i) + "."
	}
	return bullets[list.Ctx.ListDepth%len(bullets)]
}

// layoutList lays out each item at the width left after the widest marker
// and hangs the item under its marker. Children that are not items are
// indented by the same amount but get no marker.
func (e *engine) layoutList(list *RenderNode, width int) []TaggedLine {
	if len(list.Children) == 0 {
		return nil
	}
	markers := make([]string, len(list.Children))
	prefix := displayWidth(listMarker(list, 0)) + 1
	ordinal := 0
	for i, item := range list.Children {
		if item.Kind != KindListItem {
			continue
		}
		markers[i] = listMarker(list, ordinal)
		ordinal++
		prefix = max(prefix, displayWidth(markers[i])+1)
	}
	inner := max(width-prefix, 1)
	ann := Annotation{Role: RoleListMarker}
	var out []TaggedLine
	for i, item := range list.Children {
		lines := e.layoutChildren(item, inner)
		if item.Kind != KindListItem {
			if len(lines) == 0 {
				continue
			}
			out = append(out, hangingPrefix(lines, TaggedLine{{Text: padText("", prefix)}})...)
			continue
		}
		first := TaggedLine{{Text: padText(markers[i], prefix), Ann: ann}}
		out = append(out, hangingPrefix(lines, first)...)
	}
	return out
}
