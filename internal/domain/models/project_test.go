package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampMainIndex(t *testing.T) {
	tests := []struct {
		name     string
		idx, n   int
		expected int
	}{
		{name: "empty gallery", idx: 3, n: 0, expected: 0},
		{name: "in range", idx: 2, n: 5, expected: 2},
		{name: "negative", idx: -1, n: 5, expected: 0},
		{name: "past the end", idx: 5, n: 5, expected: 0},
		{name: "last valid", idx: 4, n: 5, expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClampMainIndex(tt.idx, tt.n))
		})
	}
}

func TestProject_Normalize(t *testing.T) {
	p := Project{
		Techs:          []string{" Go ", "", "React"},
		Images:         []string{"a.png", "b.png"},
		MainImageIndex: 7,
	}

	p.Normalize()

	assert.Equal(t, []string{"Go", "React"}, p.Techs)
	assert.Equal(t, 0, p.MainImageIndex)
}

func TestProject_MainImage(t *testing.T) {
	t.Run("empty gallery", func(t *testing.T) {
		p := Project{}
		assert.Equal(t, "", p.MainImage())
	})

	t.Run("designated image", func(t *testing.T) {
		p := Project{Images: []string{"a.png", "b.png"}, MainImageIndex: 1}
		assert.Equal(t, "b.png", p.MainImage())
	})

	t.Run("out of range index falls back to first", func(t *testing.T) {
		p := Project{Images: []string{"a.png", "b.png"}, MainImageIndex: 9}
		assert.Equal(t, "a.png", p.MainImage())
	})
}

func TestProject_Localized(t *testing.T) {
	p := Project{
		Title:       "Título",
		Description: "Descripción",
		TitleEN:     "Title",
	}

	t.Run("default language", func(t *testing.T) {
		title, description := p.Localized("es")
		assert.Equal(t, "Título", title)
		assert.Equal(t, "Descripción", description)
	})

	t.Run("english with partial variants falls back per field", func(t *testing.T) {
		title, description := p.Localized("en")
		assert.Equal(t, "Title", title)
		assert.Equal(t, "Descripción", description)
	})
}

func TestSplitTechs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "plain list", input: "Go,React,Redis", expected: []string{"Go", "React", "Redis"}},
		{name: "whitespace and empties", input: " Go , , React ", expected: []string{"Go", "React"}},
		{name: "empty string", input: "", expected: []string{}},
		{name: "single entry", input: "Go", expected: []string{"Go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitTechs(tt.input))
		})
	}
}

func TestProjectPatch_IsEmpty(t *testing.T) {
	assert.True(t, ProjectPatch{}.IsEmpty())

	title := "x"
	assert.False(t, ProjectPatch{Title: &title}.IsEmpty())
}
