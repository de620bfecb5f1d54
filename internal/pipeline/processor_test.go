package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanadhikar/claimsd/internal/common"
	"github.com/vanadhikar/claimsd/internal/entity"
	"github.com/vanadhikar/claimsd/internal/extract"
	"github.com/vanadhikar/claimsd/internal/geocode"
	"github.com/vanadhikar/claimsd/internal/llm"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(_ []byte) (extract.Result, error) {
	return extract.Result{Text: f.text, Pages: 1}, f.err
}

type fakeTranslator struct {
	res llm.TranslationResult
	err error
}

func (f *fakeTranslator) Translate(_ context.Context, _ string) (llm.TranslationResult, error) {
	return f.res, f.err
}

type fakeFields struct {
	res llm.ExtractionResult
	err error
}

func (f *fakeFields) ExtractFields(_ context.Context, _ string) (llm.ExtractionResult, error) {
	return f.res, f.err
}

type fakeGeocoder struct {
	calls    int
	lastArgs [3]string
	res      geocode.Result
}

func (f *fakeGeocoder) Resolve(_ context.Context, village, tehsil, district string) geocode.Result {
	f.calls++
	f.lastArgs = [3]string{village, tehsil, district}
	return f.res
}

type fakeClaims struct {
	inserted    []*entity.Claim
	communityID int64
	err         error
}

func (f *fakeClaims) InsertClaim(_ context.Context, claim *entity.Claim) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.inserted = append(f.inserted, claim)
	return f.communityID, nil
}

func (f *fakeClaims) MapData(context.Context) ([]*entity.MapPoint, error) { return nil, nil }
func (f *fakeClaims) SearchByCommunity(context.Context, int64) ([]*entity.SearchRow, error) {
	return nil, nil
}
func (f *fakeClaims) DistinctOccupations(context.Context, int64) ([]string, error) {
	return nil, nil
}
func (f *fakeClaims) GetByDocID(context.Context, int64) (*entity.Claim, error) { return nil, nil }
func (f *fakeClaims) ListByCommunity(context.Context, int64) ([]*entity.Claim, error) {
	return nil, nil
}

func goodExtraction() llm.ExtractionResult {
	return llm.ExtractionResult{
		Fields: llm.ClaimFields{
			CommunityName:  "Gond",
			Gender:         "Male",
			VillageName:    "Anandpur",
			TehsilName:     "Kotdwar",
			DistrictName:   "Pauri",
			ClaimPerson:    "Ramesh Kumar",
			Occupation:     "farmer",
			DocumentStatus: "approved",
		},
	}
}

func newTestProcessor(t *testing.T, ex *fakeExtractor, tr *fakeTranslator, ff *fakeFields, geo *fakeGeocoder, claims *fakeClaims) (*Processor, string) {
	t.Helper()
	dir := t.TempDir()
	p := NewProcessor(nil, Config{UploadDir: dir}, ex, tr, ff, geo, claims)
	return p, dir
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestProcessUploadNoExtractableText(t *testing.T) {
	claims := &fakeClaims{communityID: 1}
	p, dir := newTestProcessor(t,
		&fakeExtractor{text: ""},
		&fakeTranslator{},
		&fakeFields{},
		&fakeGeocoder{},
		claims,
	)

	_, err := p.ProcessUpload(context.Background(), "claim.pdf", []byte("%PDF"))
	require.ErrorIs(t, err, common.ErrNoExtractableText)

	assert.Empty(t, dirEntries(t, dir), "nothing may be persisted on input failure")
	assert.Empty(t, claims.inserted)
}

func TestProcessUploadEmptyTranslation(t *testing.T) {
	p, dir := newTestProcessor(t,
		&fakeExtractor{text: "कुछ पाठ"},
		&fakeTranslator{res: llm.TranslationResult{Degradation: llm.DegradationEmptyResponse}},
		&fakeFields{},
		&fakeGeocoder{},
		&fakeClaims{communityID: 1},
	)

	_, err := p.ProcessUpload(context.Background(), "claim.pdf", []byte("%PDF"))
	require.ErrorIs(t, err, common.ErrNoExtractableText)
	assert.Empty(t, dirEntries(t, dir))
}

func TestProcessUploadSuccess(t *testing.T) {
	lat, lon := 29.7462, 78.5226
	geo := &fakeGeocoder{res: geocode.Result{
		Location: entity.Location{Lat: &lat, Lon: &lon},
		Resolved: true,
	}}
	claims := &fakeClaims{communityID: 7}
	p, dir := newTestProcessor(t,
		&fakeExtractor{text: "some text"},
		&fakeTranslator{res: llm.TranslationResult{Text: "translated"}},
		&fakeFields{res: goodExtraction()},
		geo,
		claims,
	)

	res, err := p.ProcessUpload(context.Background(), "claim.pdf", []byte("%PDF raw bytes"))
	require.NoError(t, err)
	require.NotNil(t, res.Claim)

	// doc id: 8 leading decimal digits
	assert.GreaterOrEqual(t, res.Claim.DocID, int64(10000000))
	assert.Less(t, res.Claim.DocID, int64(100000000))

	assert.True(t, res.DBInserted)
	assert.Equal(t, int64(7), res.Claim.CommunityID)
	assert.Equal(t, "approved", res.Claim.DocumentStatus)
	assert.Equal(t, [3]string{"Anandpur", "Kotdwar", "Pauri"}, geo.lastArgs)

	// snapshot name matches the doc id and the snapshot body repeats it
	wantSnapshot := strconv.FormatInt(res.Claim.DocID, 10) + ".json"
	assert.Equal(t, wantSnapshot, res.SnapshotName)

	body, err := os.ReadFile(filepath.Join(dir, wantSnapshot))
	require.NoError(t, err)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.EqualValues(t, res.Claim.DocID, snap["DOC_ID_NUMBER"])

	// raw upload saved under the doc id, not the client filename
	_, err = os.Stat(filepath.Join(dir, strconv.FormatInt(res.Claim.DocID, 10)+".pdf"))
	assert.NoError(t, err)

	require.Len(t, claims.inserted, 1)
	assert.Equal(t, "Gond", claims.inserted[0].CommunityName)
	require.NotNil(t, claims.inserted[0].Location.Lat)
	assert.InDelta(t, lat, *claims.inserted[0].Location.Lat, 1e-9)
}

func TestProcessUploadDBFailureIsSoft(t *testing.T) {
	claims := &fakeClaims{err: errors.New("connection refused")}
	p, dir := newTestProcessor(t,
		&fakeExtractor{text: "some text"},
		&fakeTranslator{res: llm.TranslationResult{Text: "translated"}},
		&fakeFields{res: goodExtraction()},
		&fakeGeocoder{},
		claims,
	)

	res, err := p.ProcessUpload(context.Background(), "claim.pdf", []byte("%PDF"))
	require.NoError(t, err, "a persistence failure must not fail the upload")
	assert.False(t, res.DBInserted)

	// snapshot and raw file still written
	assert.Len(t, dirEntries(t, dir), 2)
}

func TestProcessUploadDegradedExtraction(t *testing.T) {
	geo := &fakeGeocoder{res: geocode.Result{Reason: geocode.ReasonIncompleteInput}}
	claims := &fakeClaims{communityID: 3}
	p, _ := newTestProcessor(t,
		&fakeExtractor{text: "some text"},
		&fakeTranslator{res: llm.TranslationResult{Text: "translated"}},
		&fakeFields{res: llm.ExtractionResult{
			Raw:         "no fields here",
			Degradation: llm.DegradationUnparsableJSON,
		}},
		geo,
		claims,
	)

	res, err := p.ProcessUpload(context.Background(), "claim.pdf", []byte("%PDF"))
	require.NoError(t, err, "degraded extraction proceeds, never aborts")

	assert.Equal(t, llm.DegradationUnparsableJSON, res.Degradation)
	assert.Equal(t, "no fields here", res.Claim.RawOutput)
	assert.Empty(t, res.Claim.ClaimPerson)
	assert.Nil(t, res.Claim.Location.Lat)
	// the degraded record has no location fields, so the resolver sees blanks
	assert.Equal(t, [3]string{"", "", ""}, geo.lastArgs)
	assert.Len(t, claims.inserted, 1)
}

func TestProcessUploadUnreadablePDF(t *testing.T) {
	p, dir := newTestProcessor(t,
		&fakeExtractor{err: errors.New("open pdf: bad header")},
		&fakeTranslator{},
		&fakeFields{},
		&fakeGeocoder{},
		&fakeClaims{},
	)

	_, err := p.ProcessUpload(context.Background(), "claim.pdf", []byte("garbage"))
	require.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Empty(t, dirEntries(t, dir))
}
