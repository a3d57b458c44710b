package domain

import "regexp"

// RepositoryRef identifies a hosted repository by its owner and name.
type RepositoryRef struct {
	Owner string
	Name  string
}

var repoURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)

// ParseRepoURL extracts the owner/name pair from a GitHub repository URL.
// The second return value is false when the URL does not reference a
// repository; no partially populated ref is ever returned.
func ParseRepoURL(url string) (RepositoryRef, bool) {
	m := repoURLPattern.FindStringSubmatch(url)
	if m == nil {
		return RepositoryRef{}, false
	}
	return RepositoryRef{Owner: m[1], Name: m[2]}, true
}

// URL renders the ref back into its canonical form.
func (r RepositoryRef) URL() string {
	return "https://github.com/" + r.Owner + "/" + r.Name
}
