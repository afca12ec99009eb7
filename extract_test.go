package wex_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arjunvbhat/wex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathScalar(t *testing.T) {
	req := wex.NewTestRequest(httptest.NewRequest("GET", "/users/42", nil), map[string]string{"id": "42"})

	id, err := wex.Path[int](req)
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestPathScalarRequiresExactlyOneSegment(t *testing.T) {
	req := wex.NewTestRequest(httptest.NewRequest("GET", "/a/b", nil), map[string]string{"a": "1", "b": "2"})

	_, err := wex.Path[int](req)
	require.Error(t, err)
	assert.Equal(t, wex.CodeBadRequest, wex.CodeOf(err))
}

func TestPathStruct(t *testing.T) {
	type params struct {
		ID   string `path:"id"`
		Slug string `path:"slug"`
	}

	req := wex.NewTestRequest(httptest.NewRequest("GET", "/x", nil), map[string]string{"id": "7", "slug": "hello"})

	p, err := wex.Path[params](req)
	require.NoError(t, err)
	assert.Equal(t, params{ID: "7", Slug: "hello"}, p)
}

func TestPathStructUntaggedFallsBackToFieldName(t *testing.T) {
	type params struct {
		Name string
	}

	req := wex.NewTestRequest(httptest.NewRequest("GET", "/x", nil), map[string]string{"Name": "ada"})

	p, err := wex.Path[params](req)
	require.NoError(t, err)
	assert.Equal(t, "ada", p.Name)
}

func TestPathStructMissingRequiredSegmentIsBadRequest(t *testing.T) {
	type params struct {
		ID   string `path:"id"`
		Slug string `path:"slug"`
	}

	req := wex.NewTestRequest(httptest.NewRequest("GET", "/x", nil), map[string]string{"id": "7"})

	_, err := wex.Path[params](req)
	require.Error(t, err)
	assert.Equal(t, wex.CodeBadRequest, wex.CodeOf(err))
}

func TestQueryStruct(t *testing.T) {
	type filters struct {
		Page   int    `query:"page"`
		Active bool   `query:"active"`
		Tags   string `query:"tags"`
		Hidden string `query:"-"`
	}

	req := wex.NewTestRequest(httptest.NewRequest("GET", "/x?page=2&active=true&tags=go&hidden=nope", nil), nil)

	f, err := wex.Query[filters](req)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Page)
	assert.True(t, f.Active)
	assert.Equal(t, "go", f.Tags)
	assert.Equal(t, "", f.Hidden)
}

func TestQueryStructMissingRequiredKeyIsBadRequest(t *testing.T) {
	type filters struct {
		Page int    `query:"page"`
		Tags string `query:"tags"`
	}

	req := wex.NewTestRequest(httptest.NewRequest("GET", "/x?page=2", nil), nil)

	_, err := wex.Query[filters](req)
	require.Error(t, err)
	assert.Equal(t, wex.CodeBadRequest, wex.CodeOf(err))
}

func TestQueryStructOptionalPointerFieldMayBeAbsent(t *testing.T) {
	type filters struct {
		Page  int  `query:"page"`
		Limit *int `query:"limit"`
	}

	req := wex.NewTestRequest(httptest.NewRequest("GET", "/x?page=2", nil), nil)

	f, err := wex.Query[filters](req)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Page)
	assert.Nil(t, f.Limit)
}

func TestQueryScalar(t *testing.T) {
	req := wex.NewTestRequest(httptest.NewRequest("GET", "/x?q=golang", nil), nil)

	v, err := wex.Query[string](req)
	require.NoError(t, err)
	assert.Equal(t, "golang", v)
}

func TestQueryScalarRequiresExactlyOneKey(t *testing.T) {
	req := wex.NewTestRequest(httptest.NewRequest("GET", "/x?a=1&b=2", nil), nil)

	_, err := wex.Query[string](req)
	require.Error(t, err)
	assert.Equal(t, wex.CodeBadRequest, wex.CodeOf(err))
}

func TestJSONBodyDecodesOnce(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	req := wex.NewTestRequest(httptest.NewRequest("POST", "/x", strings.NewReader(`{"name":"ada"}`)), nil)

	b, err := wex.JSONBody[body](req)
	require.NoError(t, err)
	assert.Equal(t, "ada", b.Name)

	_, err = wex.JSONBody[body](req)
	require.Error(t, err)
	assert.Equal(t, wex.CodeBadRequest, wex.CodeOf(err))
}

func TestJSONBodyEmptyIsBadRequest(t *testing.T) {
	req := wex.NewTestRequest(httptest.NewRequest("POST", "/x", nil), nil)

	_, err := wex.JSONBody[map[string]any](req)
	require.Error(t, err)
	assert.Equal(t, wex.CodeBadRequest, wex.CodeOf(err))
}

func TestJSONBodyMalformedIsBadRequest(t *testing.T) {
	req := wex.NewTestRequest(httptest.NewRequest("POST", "/x", strings.NewReader("not json")), nil)

	_, err := wex.JSONBody[map[string]any](req)
	require.Error(t, err)
	assert.Equal(t, wex.CodeBadRequest, wex.CodeOf(err))
}
