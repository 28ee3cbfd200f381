package router

import (
	"testing"

	"github.com/indigo-web/flint/http"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		for _, pattern := range []string{
			"/", "/hello", "/hello/", "/{name}", "/users/{id}/posts/{post}", "/a/{b}/c",
		} {
			_, err := parseTemplate(pattern)
			require.NoError(t, err, pattern)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := parseTemplate("")
		require.ErrorIs(t, err, ErrEmptyPattern)

		for _, pattern := range []string{
			"hello", "/{}", "/user-{id}", "/{id}.json", "/{id", "/id}", "/{{id}}",
		} {
			_, err = parseTemplate(pattern)
			require.ErrorIs(t, err, ErrInvalidTemplate, pattern)
		}
	})
}

func TestTemplateMatch(t *testing.T) {
	tcs := []struct {
		Pattern, Path string
		Matches       bool
		Vars          map[string]string
	}{
		{Pattern: "/", Path: "/", Matches: true},
		{Pattern: "/", Path: "/index.html", Matches: false},
		{Pattern: "/hello", Path: "/hello/", Matches: true},
		{Pattern: "/hello/", Path: "/hello", Matches: true},
		{Pattern: "/hello", Path: "/hell", Matches: false},
		{Pattern: "/users/{id}", Path: "/users/42", Matches: true, Vars: map[string]string{"id": "42"}},
		{Pattern: "/users/{id}", Path: "/users/", Matches: false},
		{Pattern: "/users/{id}", Path: "/users/42/posts", Matches: false},
		{Pattern: "/users/{id}", Path: "/members/42", Matches: false},
		{
			Pattern: "/users/{id}/posts/{post}", Path: "/users/7/posts/hello-world",
			Matches: true, Vars: map[string]string{"id": "7", "post": "hello-world"},
		},
		{Pattern: "/users/{id}/posts/{post}", Path: "/users/7/posts", Matches: false},
		{Pattern: "/users/{id}/posts/{post}", Path: "/users//posts/1", Matches: false},
		{Pattern: "/{a}/{b}", Path: "/x/y/", Matches: true, Vars: map[string]string{"a": "x", "b": "y"}},
	}

	for _, tc := range tcs {
		t.Run(tc.Pattern+" "+tc.Path, func(t *testing.T) {
			tmpl, err := parseTemplate(tc.Pattern)
			require.NoError(t, err)

			request := http.NewRequest(nil, "")
			matched, err := tmpl.match(tc.Path, request)
			require.NoError(t, err)
			require.Equal(t, tc.Matches, matched)

			if !tc.Matches {
				return
			}

			require.Equal(t, len(tc.Vars), request.VarsLen())
			for key, value := range tc.Vars {
				actual, found := request.Var(key)
				require.True(t, found, key)
				require.Equal(t, value, actual)
			}
		})
	}
}

func BenchmarkTemplateMatch(b *testing.B) {
	tmpl, err := parseTemplate("/api/v1/users/{id}/posts/{post}")
	if err != nil {
		b.Fatal(err)
	}

	request := http.NewRequest(nil, "")
	path := "/api/v1/users/42/posts/hello-world"

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = tmpl.match(path, request)
		request.ResetVars()
	}
}
