package catalog

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storydeck/marketplace/storydeck"
)

const sampleCatalog = `[
	{"id": "lob-001", "name": "Blue-Eyes White Dragon", "set": "LOB", "rarity": "UR"},
	{"id": "lob-005", "name": "Dark Magician", "set": "LOB", "rarity": "UR"},
	{"id": "lob-070", "name": "Red-Eyes Black Dragon", "set": "LOB", "rarity": "UR"},
	{"id": "mrd-060", "name": "Swords of Revealing Light", "set": "MRD"}
]`

func sampleCards(t *testing.T) *Catalog {
	t.Helper()
	cards, err := decode(strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	c, err := New(cards)
	require.NoError(t, err)
	return c
}

func ids(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestNew_RejectsBadCards(t *testing.T) {
	_, err := New([]Card{{Name: "nameless"}})
	assert.ErrorContains(t, err, "has no id")

	_, err = New([]Card{{ID: "a", Name: "x"}, {ID: "a", Name: "y"}})
	assert.ErrorContains(t, err, "duplicate card id")
}

func TestCatalog_DisplayName(t *testing.T) {
	c := sampleCards(t)

	name, ok := c.DisplayName("lob-005")
	assert.True(t, ok)
	assert.Equal(t, "Dark Magician", name)

	_, ok = c.DisplayName("unknown")
	assert.False(t, ok)

	card, ok := c.Card("mrd-060")
	require.True(t, ok)
	assert.Equal(t, "MRD", card.Set)
	assert.Equal(t, 4, c.Len())
}

func TestCatalog_Search(t *testing.T) {
	c := sampleCards(t)

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{name: "exact word", query: "dragon", limit: 10, want: []string{"lob-001", "lob-070"}},
		{name: "punctuation ignored", query: "Blue-Eyes", limit: 10, want: []string{"lob-001"}},
		{name: "set code", query: "mrd", limit: 10, want: []string{"mrd-060"}},
		{name: "limit applied", query: "dragon", limit: 1},
		{name: "empty query", query: "  --  ", limit: 10, want: []string{}},
		{name: "no match", query: "zzzz", limit: 10, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Search(tt.query, tt.limit)
			if tt.want == nil {
				assert.Len(t, got, tt.limit)
				return
			}
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestCatalog_SearchCached(t *testing.T) {
	c := sampleCards(t)

	first := c.Search("magician", 5)
	require.Len(t, first, 1)
	assert.Equal(t, 1, c.cache.Len())

	second := c.Search("MAGICIAN", 5)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.cache.Len())
}

func Test_normalize(t *testing.T) {
	assert.Equal(t, "blue eyes white dragon", normalize("  Blue-Eyes   White_Dragon!"))
	assert.Equal(t, "", normalize("--"))
}

func TestLoad_FileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

	c, err := Load(context.Background(), FileSource{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())

	_, err = Load(context.Background(), FileSource{Path: filepath.Join(t.TempDir(), "missing.json")})
	assert.ErrorContains(t, err, "open catalog file://")
}

type fakeGetter struct {
	body   string
	err    error
	bucket string
	key    string
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestLoad_S3Source(t *testing.T) {
	getter := &fakeGetter{body: sampleCatalog}
	src := S3Source{Client: getter, Bucket: "assets", Key: "catalog/cards.json"}

	c, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, "assets", getter.bucket)
	assert.Equal(t, "catalog/cards.json", getter.key)
	assert.Equal(t, "s3://assets/catalog/cards.json", src.String())

	_, err = Load(context.Background(), S3Source{Client: &fakeGetter{err: errors.New("access denied")}})
	assert.ErrorContains(t, err, "access denied")

	_, err = Load(context.Background(), S3Source{Client: &fakeGetter{body: "{"}})
	assert.ErrorContains(t, err, "decode catalog")
}

func TestSourceFromConfig(t *testing.T) {
	ctx := context.Background()

	src, err := SourceFromConfig(ctx, storydeck.CatalogConfig{})
	require.NoError(t, err)
	assert.Nil(t, src)

	src, err = SourceFromConfig(ctx, storydeck.CatalogConfig{Path: "cards.json"})
	require.NoError(t, err)
	assert.Equal(t, FileSource{Path: "cards.json"}, src)

	src, err = SourceFromConfig(ctx, storydeck.CatalogConfig{
		Bucket:    "assets",
		Key:       "cards.json",
		Region:    "nyc3",
		Endpoint:  "https://nyc3.digitaloceanspaces.com",
		AccessKey: "key",
		Secret:    "secret",
	})
	require.NoError(t, err)
	s3src, ok := src.(S3Source)
	require.True(t, ok)
	assert.Equal(t, "assets", s3src.Bucket)
}
