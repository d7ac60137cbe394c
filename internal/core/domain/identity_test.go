package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDocumentID_Deterministic(t *testing.T) {
	a := ComputeDocumentID("https://github.com/acme/payments", "docs/arch", "Architecture", "architecture")
	b := ComputeDocumentID("https://github.com/acme/payments", "docs/arch", "Architecture", "architecture")

	assert.Equal(t, a, b)
}

func TestComputeDocumentID_Format(t *testing.T) {
	id := ComputeDocumentID("https://github.com/acme/payments", "docs/arch", "Architecture", "architecture")

	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "doc", parts[0])
	assert.Len(t, parts[1], 12)
	assert.Len(t, parts[2], 12)
}

func TestComputeDocumentID_DivergesPerRepo(t *testing.T) {
	a := ComputeDocumentID("https://github.com/acme/payments", "", "Overview", "overview")
	b := ComputeDocumentID("https://github.com/acme/billing", "", "Overview", "overview")

	assert.NotEqual(t, a, b)
}

func TestComputeDocumentID_DivergesPerPage(t *testing.T) {
	repo := "https://github.com/acme/payments"

	a := ComputeDocumentID(repo, "docs", "Overview", "overview")
	b := ComputeDocumentID(repo, "docs", "Architecture", "overview")
	c := ComputeDocumentID(repo, "guides", "Overview", "overview")

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestComputeDocumentID_PathEmptyUsesTitleOnly(t *testing.T) {
	repo := "https://github.com/acme/payments"

	a := ComputeDocumentID(repo, "", "Overview", "overview")
	b := ComputeDocumentID(repo, "docs", "Overview", "overview")

	assert.NotEqual(t, a, b)
}

func TestComputeDocumentID_LegacyDocTypeForm(t *testing.T) {
	id := ComputeDocumentID("https://github.com/acme/payments", "", "", "architecture")

	assert.True(t, strings.HasSuffix(id, "-architecture"))
}

func TestComputeDocumentID_LegacyDefaultForm(t *testing.T) {
	id := ComputeDocumentID("https://github.com/acme/payments", "", "", "")

	assert.True(t, strings.HasSuffix(id, "-default"))
}

func TestComputeDocumentID_LegacySharesRepoSegment(t *testing.T) {
	repo := "https://github.com/acme/payments"

	hashed := ComputeDocumentID(repo, "docs", "Overview", "overview")
	legacy := ComputeDocumentID(repo, "", "", "overview")

	assert.Equal(t, strings.Split(hashed, "-")[1], strings.Split(legacy, "-")[1])
}

func TestRepoNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/acme/payments", "payments"},
		{"https://github.com/acme/payments.git", "payments"},
		{"https://github.com/acme/payments/", "payments"},
		{"git@github.com:acme/payments.git", "payments"},
		{"payments", "payments"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RepoNameFromURL(tt.url), "url %s", tt.url)
	}
}
