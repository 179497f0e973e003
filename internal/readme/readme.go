// Package readme finds the endpoint badges a README embeds.
package readme

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/UnitVectorY-Labs/statbadge/internal/models"
)

const (
	shieldsHost = "img.shields.io"
	rawHost     = "raw.githubusercontent.com"
)

var htmlBadgeRegex = regexp.MustCompile(`<a\s+href="([^"]+)"[^>]*>\s*<img\s+src="([^"]+)"(?:\s+alt="([^"]*)")?[^>]*>\s*</a>`)

// ExtractBadges parses the README content and returns a list of badges.
func ExtractBadges(content []byte) []models.Badge {
	var badges []models.Badge

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(content))

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		// Linked images only: [![alt](image)](target)
		if link, ok := n.(*ast.Link); ok {
			for child := link.FirstChild(); child != nil; child = child.NextSibling() {
				if img, ok := child.(*ast.Image); ok {
					badge := models.Badge{
						AltText:   string(img.Text(content)),
						ImageURL:  string(img.Destination),
						TargetURL: string(link.Destination),
					}
					normalizeBadge(&badge)
					badges = append(badges, badge)
				}
			}
		}
		return ast.WalkContinue, nil
	})

	// Raw HTML badges are opaque to the markdown AST.
	for _, match := range htmlBadgeRegex.FindAllSubmatch(content, -1) {
		badge := models.Badge{
			TargetURL: string(match[1]),
			ImageURL:  string(match[2]),
			AltText:   string(match[3]),
		}
		normalizeBadge(&badge)
		badges = append(badges, badge)
	}

	return badges
}

func normalizeBadge(b *models.Badge) {
	if u, err := url.Parse(b.ImageURL); err == nil {
		b.HostImage = u.Host
	}
	if u, err := url.Parse(b.TargetURL); err == nil {
		b.HostTarget = u.Host
	}
}

// ResolveEndpoint reports which raw GitHub file a shields.io endpoint badge
// reads its record from.
func ResolveEndpoint(b models.Badge) (models.EndpointBadge, bool) {
	img, err := url.Parse(b.ImageURL)
	if err != nil || !strings.EqualFold(img.Host, shieldsHost) || img.Path != "/endpoint" {
		return models.EndpointBadge{}, false
	}
	src, err := url.Parse(img.Query().Get("url"))
	if err != nil || !strings.EqualFold(src.Host, rawHost) {
		return models.EndpointBadge{}, false
	}

	// /<owner>/<repo>/<branch>/<path...>
	parts := strings.SplitN(strings.TrimPrefix(src.Path, "/"), "/", 4)
	if len(parts) != 4 || parts[3] == "" {
		return models.EndpointBadge{}, false
	}
	return models.EndpointBadge{
		Badge:  b,
		Owner:  parts[0],
		Repo:   parts[1],
		Branch: parts[2],
		Path:   parts[3],
	}, true
}

// FindEndpointBadge returns the first badge rendering path on branch of
// owner/repo.
func FindEndpointBadge(badges []models.Badge, owner, repo, branch, path string) (models.EndpointBadge, bool) {
	for _, b := range badges {
		ep, ok := ResolveEndpoint(b)
		if !ok {
			continue
		}
		if strings.EqualFold(ep.Owner, owner) && strings.EqualFold(ep.Repo, repo) &&
			ep.Branch == branch && ep.Path == path {
			return ep, true
		}
	}
	return models.EndpointBadge{}, false
}

// Load reads README.md from root and extracts its badges.
func Load(root string) ([]models.Badge, error) {
	content, err := os.ReadFile(filepath.Join(root, "README.md"))
	if err != nil {
		return nil, err
	}
	return ExtractBadges(content), nil
}
