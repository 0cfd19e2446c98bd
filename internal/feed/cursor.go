package feed

// Cursor marks how far a guild's log consumption has progressed. LastLine
// holds the exact text of the last line handed to the dispatcher, so resuming
// never depends on byte offsets surviving a re-upload.
type Cursor struct {
	FileName string
	LastLine string
}

// Diff is the outcome of comparing a freshly downloaded file against the
// stored cursor.
type Diff struct {
	NewLines []string
	Next     Cursor
	Rotated  bool
	Rescan   bool
}

// DiffCursor decides which lines of the current file are new. A changed file
// name means rotation and the whole file is new. Within the same file the
// last occurrence of the stored line is the resume point; if the stored line
// is gone the file was truncated or rewritten and everything is consumed
// again from the top.
func DiffCursor(prev Cursor, fileName string, lines []string) Diff {
	d := Diff{Next: prev}
	d.Next.FileName = fileName

	if fileName != prev.FileName {
		d.Rotated = true
		d.NewLines = lines
		d.Next.LastLine = lastOf(lines)
		return d
	}

	if prev.LastLine == "" {
		d.NewLines = lines
		d.Next.LastLine = lastOf(lines)
		return d
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] == prev.LastLine {
			d.NewLines = lines[i+1:]
			if len(d.NewLines) > 0 {
				d.Next.LastLine = d.NewLines[len(d.NewLines)-1]
			}
			return d
		}
	}

	d.Rescan = true
	d.NewLines = lines
	d.Next.LastLine = lastOf(lines)
	return d
}

func lastOf(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}
