package storage

import (
	"regexp"
	"strings"
	"testing"

	"github.com/creerlio/talentbank/internal/apperr"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pathPattern = regexp.MustCompile(`^u1/resume/[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}-resume\.pdf$`)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"resume.pdf", "resume.pdf"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"my resume (final).pdf", "my_resume_final_.pdf"},
		{"a  b", "a_b"},
		{"résumé.pdf", "r_sum_.pdf"},
		{"cv-2026_v2.PDF", "cv-2026_v2.PDF"},
		{"", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestBuildPath_Shape(t *testing.T) {
	path, err := BuildPath("u1", "resume", "resume.pdf")
	require.NoError(t, err)
	assert.Regexp(t, pathPattern, path)
}

func TestBuildPath_UniquePerCall(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		path, err := BuildPath("u1", "resume", "resume.pdf")
		require.NoError(t, err)
		require.False(t, seen[path], "duplicate path %s", path)
		seen[path] = true
	}
}

func TestBuildPath_RequiresOwnerAndType(t *testing.T) {
	_, err := BuildPath("", "resume", "resume.pdf")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = BuildPath("u1", "", "resume.pdf")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestBuildPathProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("filename segment never contains a slash or unsafe char", prop.ForAll(
		func(name string) bool {
			path, err := BuildPath("u1", "document", name)
			if err != nil {
				return false
			}
			parts := strings.Split(path, "/")
			if len(parts) != 3 {
				return false
			}
			return regexp.MustCompile(`^[\w.\-]+$`).MatchString(parts[2])
		},
		gen.AnyString(),
	))

	properties.Property("identical inputs never collide", prop.ForAll(
		func(name string) bool {
			a, errA := BuildPath("u1", "document", name)
			b, errB := BuildPath("u1", "document", name)
			return errA == nil && errB == nil && a != b
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
