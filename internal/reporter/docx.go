package reporter

import (
	"fmt"

	"github.com/gingfrederik/docx"

	"github.com/RowanDark/0xcrack/internal/crack"
)

// WriteDOCX saves r as a Word document at path.
func WriteDOCX(path string, r *crack.Result) error {
	f := docx.NewFile()

	title := f.AddParagraph().AddText("0xcrack Report")
	title.Size(20)
	f.AddParagraph()

	meta := f.AddParagraph().AddText(fmt.Sprintf("Run %s | Family: %s | Keys tried: %d | Time: %s",
		r.ID, r.Family.Label(), r.Evaluated, formatDuration(r.Duration)))
	meta.Size(10)
	meta.Color("808080")

	f.AddParagraph().AddText("Ciphertext: " + r.Ciphertext)
	f.AddParagraph()

	if len(r.Candidates) == 0 {
		f.AddParagraph().AddText("No results found.")
		return save(f, path)
	}

	heading := f.AddParagraph().AddText("Top Results")
	heading.Size(16)
	for i, c := range r.Candidates {
		line := f.AddParagraph().AddText(fmt.Sprintf("#%d  Score %d  %s  (%s)", i+1, c.Score, c.CipherType(), c.Params))
		line.Size(12)
		preview := f.AddParagraph().AddText(c.Preview)
		preview.Color("404040")
	}

	f.AddParagraph()
	heading = f.AddParagraph().AddText("Best Candidate")
	heading.Size(16)
	best := r.Candidates[0]
	f.AddParagraph().AddText(fmt.Sprintf("%s, %s, score %d", best.CipherType(), best.Params, best.Score))
	if r.Exact {
		ok := f.AddParagraph().AddText("Exact match: every word is a known word.")
		ok.Color("008000")
	}
	f.AddParagraph().AddText(best.Plaintext)

	return save(f, path)
}

func save(f *docx.File, path string) error {
	if err := f.Save(path); err != nil {
		return fmt.Errorf("save docx %s: %w", path, err)
	}
	return nil
}
