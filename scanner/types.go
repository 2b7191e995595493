// Package scanner walks a repository and turns every readable text file into
// a classified, token-counted FileRecord.
package scanner

// WorkflowName replaces the name of every file under .github/workflows
const WorkflowName = "github actions"

// Entry is a raw file discovered by the walker
type Entry struct {
	Name    string // base name, or WorkflowName
	Path    string // slash separated, relative to the walk root
	Content string
}

// FileRecord is an Entry enriched with its extension, token count and the
// language tables. Language and the setup commands are all empty when the
// extension is not mapped.
type FileRecord struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Content   string `json:"-"`
	Extension string `json:"extension"`
	Tokens    int    `json:"tokens"`
	Language  string `json:"language,omitempty"`
	Install   string `json:"install,omitempty"`
	Run       string `json:"run,omitempty"`
	Test      string `json:"test,omitempty"`
}

// Snapshot is the ordered result of one analysis run
type Snapshot struct {
	ID      string       `json:"id"`
	Root    string       `json:"root"`
	Remote  bool         `json:"remote"`
	Records []FileRecord `json:"records"`
}

// TotalTokens sums the token counts of all records
func (s *Snapshot) TotalTokens() (total int) {
	for _, r := range s.Records {
		total += r.Tokens
	}
	return total
}
