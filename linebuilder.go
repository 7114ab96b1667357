package h2t

import "strings"

// lineBuilder accumulates inline content into wrapped lines. Text arrives in
// runs; a word is complete when a space or a forced break follows it.
type lineBuilder struct {
	width    int
	softWrap bool

	lines []TaggedLine

	cur      TaggedLine
	curWidth int

	word      TaggedLine
	wordWidth int

	hasSpace bool
	spaceAnn Annotation

	// wantBlank requests one blank line before the next committed line.
	wantBlank bool
}

func newLineBuilder(width int, softWrap bool) *lineBuilder {
	if width < 1 {
		width = 1
	}
	return &lineBuilder{width: width, softWrap: softWrap}
}

// addText feeds whitespace-collapsed text. Every ' ' separates words.
func (b *lineBuilder) addText(text string, ann Annotation) {
	for text != "" {
		i := strings.IndexByte(text, ' ')
		if i < 0 {
			b.appendWord(text, ann)
			return
		}
		if i > 0 {
			b.appendWord(text[:i], ann)
		}
		b.space(ann)
		text = text[i+1:]
	}
}

// appendWord glues text to the word being built.
func (b *lineBuilder) appendWord(text string, ann Annotation) {
	if text == "" {
		return
	}
	b.word = b.word.Append(text, ann)
	b.wordWidth += displayWidth(text)
}

func (b *lineBuilder) space(ann Annotation) {
	b.flushWord()
	// Leading spaces are never emitted.
	if len(b.cur) > 0 && !b.hasSpace {
		b.hasSpace = true
		b.spaceAnn = ann
	}
}

func (b *lineBuilder) flushWord() {
	if len(b.word) == 0 {
		return
	}
	need := b.wordWidth
	if b.hasSpace {
		need++
	}
	if len(b.cur) > 0 && b.curWidth+need > b.width {
		b.emitLine()
	}
	if b.softWrap && b.wordWidth > b.width {
		pieces := splitLine(b.word, b.width)
		for _, piece := range pieces[:len(pieces)-1] {
			b.commit(piece)
		}
		last := pieces[len(pieces)-1]
		b.cur = last
		b.curWidth = last.Width()
	} else {
		if b.hasSpace {
			b.cur = b.cur.Append(" ", b.spaceAnn)
			b.curWidth++
		}
		b.cur = b.cur.AppendLine(b.word)
		b.curWidth += b.wordWidth
	}
	b.hasSpace = false
	b.word = nil
	b.wordWidth = 0
}

func (b *lineBuilder) emitLine() {
	b.commit(b.cur)
	b.cur = nil
	b.curWidth = 0
	b.hasSpace = false
}

func (b *lineBuilder) commit(line TaggedLine) {
	if b.wantBlank {
		if n := len(b.lines); n > 0 && len(b.lines[n-1]) > 0 {
			b.lines = append(b.lines, nil)
		}
		b.wantBlank = false
	}
	b.lines = append(b.lines, line)
}

// breakLine ends the current line, if any. A pending space is dropped.
func (b *lineBuilder) breakLine() {
	b.flushWord()
	if len(b.cur) > 0 {
		b.emitLine()
	}
	b.hasSpace = false
}

// lineBreak handles an explicit <br>: on an empty line it yields a blank
// line.
func (b *lineBuilder) lineBreak() {
	b.flushWord()
	if len(b.cur) > 0 {
		b.emitLine()
		return
	}
	if b.wantBlank {
		b.wantBlank = false
		if n := len(b.lines); n > 0 && len(b.lines[n-1]) > 0 {
			b.lines = append(b.lines, nil)
		}
		return
	}
	b.lines = append(b.lines, nil)
}

func (b *lineBuilder) startBlock(spaced bool) {
	b.breakLine()
	if spaced {
		b.wantBlank = true
	}
}

func (b *lineBuilder) endBlock(spaced bool) {
	b.breakLine()
	if spaced {
		b.wantBlank = true
	}
}

// addLines appends lines laid out elsewhere, each on its own line.
func (b *lineBuilder) addLines(lines []TaggedLine) {
	b.breakLine()
	for i, l := range lines {
		if i == 0 {
			b.commit(l)
			continue
		}
		b.lines = append(b.lines, l)
	}
}

// finish flushes pending content and returns the lines without trailing
// blank lines.
func (b *lineBuilder) finish() []TaggedLine {
	b.breakLine()
	b.wantBlank = false
	lines := b.lines
	for len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	b.lines = nil
	return lines
}
