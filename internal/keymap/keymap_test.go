package keymap

import (
	"context"
	"math"
	"testing"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/filestore"
	"github.com/koustreak/blobidx/internal/filestore/memstore"
	"github.com/koustreak/blobidx/internal/index"
	"github.com/koustreak/blobidx/internal/logger"
	"github.com/koustreak/blobidx/internal/objname"
	"github.com/koustreak/blobidx/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"q3", "sales", "report", "json"}, Tokenize("Q3_Sales-report.json"))
	assert.Equal(t, []string{"two", "words"}, Tokenize("  two   words "))
	assert.Empty(t, Tokenize("..--__"))
}

func TestNameKeymaps(t *testing.T) {
	ctx := context.Background()
	n := objname.MustNew("Föö-Bar.txt")

	k, err := ByName(ctx, nil, n)
	require.NoError(t, err)
	assert.Equal(t, "Föö-Bar.txt", k)

	l, err := ByNameLength(ctx, nil, n)
	require.NoError(t, err)
	assert.Equal(t, 11, l)

	toks, err := NameTokens(ctx, nil, n)
	require.NoError(t, err)
	assert.Equal(t, []string{"föö", "bar", "txt"}, toks)
}

func TestJSONKeymaps(t *testing.T) {
	ctx := context.Background()
	sto := memstore.New().
		Put("a", []byte(`{"number": 10, "owner": "ana", "tags": ["x"]}`)).
		Put("b", []byte(`{"number": 2.5}`)).
		Put("c", []byte(`not json`))

	owner, err := JSONField("owner")(ctx, sto, objname.MustNew("a"))
	require.NoError(t, err)
	assert.Equal(t, "ana", owner)

	num, err := JSONField("number")(ctx, sto, objname.MustNew("b"))
	require.NoError(t, err)
	assert.Equal(t, "2.5", num)

	tags, err := JSONField("tags")(ctx, sto, objname.MustNew("a"))
	require.NoError(t, err)
	assert.Equal(t, "[x]", tags)

	f, err := JSONNumber("number")(ctx, sto, objname.MustNew("a"))
	require.NoError(t, err)
	assert.Equal(t, 10.0, f)

	_, err = JSONNumber("owner")(ctx, sto, objname.MustNew("a"))
	assert.True(t, errs.IsDataFormat(err))

	_, err = JSONField("missing")(ctx, sto, objname.MustNew("a"))
	assert.True(t, errs.IsDataFormat(err))

	_, err = JSONField("owner")(ctx, sto, objname.MustNew("c"))
	assert.True(t, errs.IsDataFormat(err))

	_, err = JSONField("owner")(ctx, sto, objname.MustNew("zzz"))
	assert.True(t, errs.IsNotFound(err))
}

func TestYAMLKeymaps(t *testing.T) {
	ctx := context.Background()
	sto := memstore.New().
		Put("a", []byte("owner: ana\nsize: 12\n")).
		Put("b", []byte("size: 1.5\n"))

	owner, err := Field(filestore.YAML, "owner")(ctx, sto, objname.MustNew("a"))
	require.NoError(t, err)
	assert.Equal(t, "ana", owner)

	n, err := Number(filestore.YAML, "size")(ctx, sto, objname.MustNew("a"))
	require.NoError(t, err)
	assert.Equal(t, 12.0, n)

	n, err = Number(filestore.YAML, "size")(ctx, sto, objname.MustNew("b"))
	require.NoError(t, err)
	assert.Equal(t, 1.5, n)

	_, err = Number(filestore.YAML, "owner")(ctx, sto, objname.MustNew("a"))
	assert.True(t, errs.IsDataFormat(err))
}

func TestScores(t *testing.T) {
	assert.Equal(t, 1.0, NumericProximity(18, 18))
	assert.Equal(t, -1.0, IntProximity(18, 20))

	assert.Equal(t, 0.5, TextProximity("2", "2.5"))
	assert.True(t, math.IsNaN(TextProximity("two", "2")))
	assert.True(t, math.IsNaN(TextProximity("2", "")))

	assert.Equal(t, 1.0, TokenOverlap("sales report", "report-sales"))
	assert.InDelta(t, 1.0/3.0, TokenOverlap("sales report", "sales-summary"), 1e-9)
	assert.Equal(t, 0.0, TokenOverlap("", ""))
	assert.Equal(t, 0.0, TokenOverlap("a", "b"))

	assert.Equal(t, 1.0, PrefixScore("Report", "report"))
	assert.Equal(t, 0.5, PrefixScore("repo", "reporter"))
	assert.Equal(t, 0.0, PrefixScore("", ""))
}

func TestEndToEnd_TokensAndOverlap(t *testing.T) {
	ctx := context.Background()
	sto := memstore.New().
		Put("sales-report-2024", nil).
		Put("sales-summary", nil).
		Put("hr-report", nil)

	idx, err := index.MultiIndex(ctx, sto, objname.Root(), NameTokens,
		index.WithLogger(logger.Nop()), index.WithMetrics(false))
	require.NoError(t, err)

	hits, err := search.FindBestMatch[string, string](idx, TokenOverlap, "sales")
	require.NoError(t, err)

	// one hit per (token, object) pair
	assert.Len(t, hits, 7)
	assert.Equal(t, 1.0, hits[0].Score)
	assert.Equal(t, 1.0, hits[1].Score)
	assert.ElementsMatch(t, []string{"sales-report-2024", "sales-summary"},
		[]string{hits[0].Item.String(), hits[1].Item.String()})
	assert.Equal(t, 0.0, hits[2].Score)
}
