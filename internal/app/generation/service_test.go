package generation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"replyforge/internal/domain/accounts"
	"replyforge/internal/domain/businesses"
	"replyforge/internal/domain/plans"
	"replyforge/internal/domain/responses"
	"replyforge/internal/domain/templates"
	"replyforge/internal/domain/usage"
	"replyforge/internal/infra/events"
	"replyforge/internal/infra/llm"
	apperrors "replyforge/internal/shared/errors"
	"replyforge/internal/shared/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeProvider struct {
	mu         sync.Mutex
	text       string
	tokens     int
	err        error
	calls      int
	lastSystem string
	lastUser   string
	barrier    *sync.WaitGroup
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, system, user string) (*llm.Completion, error) {
	f.mu.Lock()
	f.calls++
	f.lastSystem, f.lastUser = system, user
	f.mu.Unlock()

	if f.barrier != nil {
		f.barrier.Done()
		f.barrier.Wait()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Completion{Text: f.text, TokensUsed: f.tokens, Model: "fake-model"}, nil
}

func validRequest() Request {
	return Request{
		ReviewText:   "The pasta was amazing and the staff were lovely.",
		ReviewerName: "Dana",
		ReviewRating: testutil.Ptr(5),
		Platform:     "google",
		BusinessName: "Luigi's",
		BusinessType: "restaurant",
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func usedOf(t *testing.T, db *gorm.DB, id string) int {
	t.Helper()
	a, err := accounts.Find(context.Background(), db, id)
	require.NoError(t, err)
	return a.ResponsesUsed
}

func TestGenerate_QuotaExhausted(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedAccount(t, db, "free", plans.TierFree, 5)
	p := &fakeProvider{text: "Thanks!"}

	_, err := NewService(db, p, nil).Generate(context.Background(), "free", validRequest())

	require.Error(t, err)
	assert.True(t, apperrors.IsQuotaExceeded(err))
	assert.Equal(t, 0, p.calls, "no generation call once quota is spent")
	assert.Equal(t, 5, usedOf(t, db, "free"))
	assert.Zero(t, countRows(t, db, &responses.GeneratedResponse{}))
	assert.Zero(t, countRows(t, db, &usage.Record{}))
}

func TestGenerate_Success(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedAccount(t, db, "pro", plans.TierPro, 10)
	p := &fakeProvider{text: "Thank you so much, Dana!", tokens: 2000}
	rec := &events.Recorder{}

	res, err := NewService(db, p, rec).Generate(context.Background(), "pro", validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Thank you so much, Dana!", res.Response)
	assert.Equal(t, 2000, res.TokensUsed)
	assert.GreaterOrEqual(t, res.GenerationTime, int64(0))
	assert.Equal(t, 11, usedOf(t, db, "pro"))

	var rows []responses.GeneratedResponse
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, res.ResponseID, rows[0].ID)
	assert.Equal(t, "professional", rows[0].ResponseTone)
	assert.Equal(t, "fake-model", rows[0].ModelUsed)
	require.NotNil(t, rows[0].ReviewPlatform)
	assert.Equal(t, "google", *rows[0].ReviewPlatform)

	var records []usage.Record
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, usage.ActionGenerate, records[0].Action)
	assert.InDelta(t, 0.02, records[0].Cost, 1e-9)
	assert.Equal(t, res.ResponseID, records[0].Metadata["responseId"])
	assert.Equal(t, "google", records[0].Metadata["platform"])

	require.Len(t, rec.Events(), 1)
	assert.Equal(t, events.ResponseGenerated, rec.Events()[0].Type)

	assert.Contains(t, p.lastSystem, "professional, courteous tone")
	assert.Contains(t, p.lastUser, "Luigi's is a restaurant.")
	assert.Contains(t, p.lastUser, "5-star review")
	assert.Contains(t, p.lastUser, "The reviewer's name is Dana.")
}

func TestGenerate_DownstreamFailureLeavesNoTrace(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedAccount(t, db, "starter", plans.TierStarter, 7)
	p := &fakeProvider{err: errors.New("openai error: 503 upstream unavailable")}
	rec := &events.Recorder{}

	_, err := NewService(db, p, rec).Generate(context.Background(), "starter", validRequest())

	require.Error(t, err)
	assert.True(t, apperrors.IsDownstream(err))
	assert.Equal(t, "Failed to generate response", apperrors.GetAppError(err).Message)
	assert.Equal(t, 7, usedOf(t, db, "starter"))
	assert.Zero(t, countRows(t, db, &responses.GeneratedResponse{}))
	assert.Zero(t, countRows(t, db, &usage.Record{}))
	assert.Empty(t, rec.Events())
}

func TestGenerate_AccountMissing(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := NewService(db, &fakeProvider{text: "x"}, nil).Generate(context.Background(), "ghost", validRequest())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGenerate_UnlimitedNeverBlocks(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedAccount(t, db, "agency", plans.TierAgency, 100_000)

	_, err := NewService(db, &fakeProvider{text: "ok"}, nil).Generate(context.Background(), "agency", validRequest())
	require.NoError(t, err)
	assert.Equal(t, 100_001, usedOf(t, db, "agency"))
}

func TestGenerate_ConcurrentRequestsRespectLimit(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedAccount(t, db, "free", plans.TierFree, 3)

	const n = 8
	barrier := &sync.WaitGroup{}
	barrier.Add(n)
	svc := NewService(db, &fakeProvider{text: "ok", tokens: 10, barrier: barrier}, nil)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Generate(context.Background(), "free", validRequest())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperrors.IsQuotaExceeded(err):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded)
	assert.Equal(t, n-2, rejected)
	assert.Equal(t, 5, usedOf(t, db, "free"))
	assert.EqualValues(t, 2, countRows(t, db, &responses.GeneratedResponse{}))
	assert.EqualValues(t, 2, countRows(t, db, &usage.Record{}))
}

func TestGenerate_WithBusinessAndTemplate(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedAccount(t, db, "owner", plans.TierPro, 0)
	testutil.SeedAccount(t, db, "other", plans.TierPro, 0)

	b := businesses.Business{
		AccountID:     "owner",
		Name:          "Bean There",
		Type:          testutil.Ptr("coffee shop"),
		BrandVoice:    testutil.Ptr("friendly"),
		ToneKeywords:  []string{"cozy"},
		AvoidKeywords: []string{"cheap"},
	}
	require.NoError(t, db.Create(&b).Error)

	public := templates.Template{AccountID: "other", Name: "Short", PromptTemplate: "Keep it under 40 words.", IsPublic: true}
	private := templates.Template{AccountID: "other", Name: "Secret", PromptTemplate: "x"}
	require.NoError(t, db.Create(&public).Error)
	require.NoError(t, db.Create(&private).Error)

	p := &fakeProvider{text: "Thanks for visiting!", tokens: 50}
	svc := NewService(db, p, nil)

	req := validRequest()
	req.BusinessID = b.ID
	req.TemplateID = public.ID
	res, err := svc.Generate(context.Background(), "owner", req)
	require.NoError(t, err)

	assert.Contains(t, p.lastUser, "Bean There is a coffee shop.")
	assert.Contains(t, p.lastSystem, "warm, friendly tone")
	assert.Contains(t, p.lastSystem, "cozy")
	assert.Contains(t, p.lastSystem, "Never use these words: cheap")
	assert.Contains(t, p.lastSystem, "Keep it under 40 words.")

	var row responses.GeneratedResponse
	require.NoError(t, db.First(&row, "id = ?", res.ResponseID).Error)
	require.NotNil(t, row.BusinessID)
	assert.Equal(t, b.ID, *row.BusinessID)

	var tpl templates.Template
	require.NoError(t, db.First(&tpl, "id = ?", public.ID).Error)
	assert.Equal(t, 1, tpl.UseCount)

	req.TemplateID = private.ID
	_, err = svc.Generate(context.Background(), "owner", req)
	assert.True(t, apperrors.IsForbidden(err))

	req.TemplateID = ""
	_, err = svc.Generate(context.Background(), "other", req)
	assert.True(t, apperrors.IsForbidden(err), "business belongs to someone else")

	assert.Equal(t, 1, usedOf(t, db, "owner"))
	assert.Equal(t, 0, usedOf(t, db, "other"))
}

func TestImprove(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedAccount(t, db, "owner", plans.TierStarter, 0)
	testutil.SeedAccount(t, db, "intruder", plans.TierStarter, 0)

	p := &fakeProvider{text: "Original reply.", tokens: 100}
	svc := NewService(db, p, nil)

	first, err := svc.Generate(context.Background(), "owner", validRequest())
	require.NoError(t, err)

	p.text = "Shorter reply."
	improved, err := svc.Improve(context.Background(), "owner", first.ResponseID, "make it shorter")
	require.NoError(t, err)
	assert.NotEqual(t, first.ResponseID, improved.ResponseID)
	assert.Contains(t, p.lastUser, "Instruction: make it shorter")
	assert.Contains(t, p.lastUser, "Original reply.")

	var src responses.GeneratedResponse
	require.NoError(t, db.First(&src, "id = ?", first.ResponseID).Error)
	assert.Equal(t, "Original reply.", src.ResponseText)
	assert.Equal(t, 2, usedOf(t, db, "owner"))

	var rec usage.Record
	require.NoError(t, db.Where("action = ?", usage.ActionImprove).First(&rec).Error)
	assert.Equal(t, first.ResponseID, rec.Metadata["sourceResponseId"])

	_, err = svc.Improve(context.Background(), "intruder", first.ResponseID, "make it rude")
	assert.True(t, apperrors.IsForbidden(err))

	_, err = svc.Improve(context.Background(), "owner", "00000000-0000-0000-0000-000000000000", "x")
	assert.True(t, apperrors.IsNotFound(err))
}
