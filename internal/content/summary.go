package content

// Summary describes one processed content file. Title, Description, Date and
// Category hold the raw frontmatter values (empty when absent); Slug is the
// resolved output name.
type Summary struct {
	Title       string
	Description string
	Date        string
	Category    string
	Slug        string

	Source      string
	Output      string
	Fingerprint string
}
