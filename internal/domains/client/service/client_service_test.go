package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realestate-backend/internal/domains/client/model"
	"realestate-backend/internal/shared/tabular"
	"realestate-backend/internal/shared/utils"
	"realestate-backend/pkg/csvutil"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) List(ctx context.Context, f model.ClientFilter) ([]model.Client, int64, error) {
	args := m.Called(ctx, f)
	clients, _ := args.Get(0).([]model.Client)
	return clients, args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Client, error) {
	args := m.Called(ctx, id, includeDeleted)
	c, _ := args.Get(0).(*model.Client)
	return c, args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, c *model.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) Update(ctx context.Context, c *model.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) Patch(ctx context.Context, id uuid.UUID, changes []utils.Assignment) error {
	return m.Called(ctx, id, changes).Error(0)
}

func (m *mockRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) Restore(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) Purge(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) BulkCreate(ctx context.Context, clients []model.Client) (int, error) {
	args := m.Called(ctx, clients)
	return args.Int(0), args.Error(1)
}

func (m *mockRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

var fixedNow = time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC)

func newService(repo *mockRepo) *ClientService {
	s := NewClientService(repo, 3)
	s.now = func() time.Time { return fixedNow }
	return s
}

func changesMap(changes []utils.Assignment) map[string]any {
	m := make(map[string]any, len(changes))
	for _, c := range changes {
		m[c.Column] = c.Value
	}
	return m
}

func TestCreate_DefaultsAndFollowUp(t *testing.T) {
	repo := new(mockRepo)
	svc := newService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Client) bool {
		want := fixedNow.AddDate(0, 1, 0)
		return c.ServiceType == model.ServiceBuying && c.FollowUp == model.FollowUpMonthly &&
			c.Status == model.StatusActive && c.NextFollowUpAt != nil && c.NextFollowUpAt.Equal(want) &&
			c.Email != nil && *c.Email == "jane@homes.example"
	})).Return(nil)

	_, err := svc.Create(context.Background(), model.ClientRequest{Name: " Jane ", Phone: "0901", Email: "Jane@Homes.example"}, "en-US")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreate_DisplayDateInput(t *testing.T) {
	repo := new(mockRepo)
	svc := newService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Client) bool {
		return c.LastContactedAt != nil && c.LastContactedAt.Format("2006-01-02") == "2026-04-03" &&
			c.NextFollowUpAt.Format("2006-01-02") == "2026-04-10"
	})).Return(nil)

	_, err := svc.Create(context.Background(), model.ClientRequest{
		Name: "Jane", Phone: "0901", FollowUp: model.FollowUpWeekly, LastContactedAt: "03/04/2026",
	}, "en-GB")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), model.ClientRequest{Name: "Jane", Phone: "0901", LastContactedAt: "someday"}, "en-GB")
	assert.ErrorIs(t, err, model.ErrInvalidDate)
}

func TestCreate_BlankNameOrPhoneRejected(t *testing.T) {
	repo := new(mockRepo)
	svc := newService(repo)

	_, err := svc.Create(context.Background(), model.ClientRequest{Name: "  ", Phone: "\t "}, "en-US")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "phone is required")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPatch_SingleFieldEdit(t *testing.T) {
	repo := new(mockRepo)
	svc := newService(repo)
	id := uuid.New()
	status := model.StatusClosed

	repo.On("Patch", mock.Anything, id, []utils.Assignment{{Column: "status", Value: model.StatusClosed}}).Return(nil)
	repo.On("FindByID", mock.Anything, id, false).Return(&model.Client{ID: id, Status: model.StatusClosed}, nil)

	c, err := svc.Patch(context.Background(), id, model.PatchClientRequest{Status: &status}, "en-US")
	require.NoError(t, err)
	assert.Equal(t, model.StatusClosed, c.Status)
	repo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestPatch_RecomputesNextFollowUp(t *testing.T) {
	repo := new(mockRepo)
	svc := newService(repo)
	id := uuid.New()
	last := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	current := &model.Client{ID: id, FollowUp: model.FollowUpWeekly, LastContactedAt: &last}

	quarterly := model.FollowUpQuarterly
	repo.On("FindByID", mock.Anything, id, false).Return(current, nil)
	repo.On("Patch", mock.Anything, id, mock.MatchedBy(func(changes []utils.Assignment) bool {
		m := changesMap(changes)
		next, ok := m["next_follow_up_at"].(*time.Time)
		return m["follow_up"] == model.FollowUpQuarterly && ok && next != nil &&
			next.Equal(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	})).Return(nil).Once()

	_, err := svc.Patch(context.Background(), id, model.PatchClientRequest{FollowUp: &quarterly}, "en-US")
	require.NoError(t, err)

	none := model.FollowUpNone
	repo.On("Patch", mock.Anything, id, mock.MatchedBy(func(changes []utils.Assignment) bool {
		next, ok := changesMap(changes)["next_follow_up_at"].(*time.Time)
		return ok && next == nil
	})).Return(nil).Once()

	_, err = svc.Patch(context.Background(), id, model.PatchClientRequest{FollowUp: &none}, "en-US")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPatch_Empty(t *testing.T) {
	svc := newService(new(mockRepo))
	_, err := svc.Patch(context.Background(), uuid.New(), model.PatchClientRequest{}, "en-US")
	assert.ErrorIs(t, err, model.ErrEmptyPatch)
}

func TestList_PassesFilter(t *testing.T) {
	repo := new(mockRepo)
	svc := newService(repo)

	repo.On("List", mock.Anything, mock.MatchedBy(func(f model.ClientFilter) bool {
		return f.DueOnly && f.DueBefore.Equal(fixedNow) && f.Limit == 20 && f.Offset == 0 &&
			f.Deleted == utils.ScopeDeleted && f.Sort == "budget"
	})).Return([]model.Client{}, int64(0), nil)

	_, _, p, err := svc.List(context.Background(), model.ListClientsRequest{DueOnly: true, Deleted: "deleted", Sort: "budget"})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
}

func TestImport(t *testing.T) {
	repo := new(mockRepo)
	svc := newService(repo)

	csv := "\ufeffName,Phone,Email,Service Type,Budget,Notes\n" +
		"Jane,0901,jane@homes.example,selling,\"1,500\",\"likes \"\"big\"\" windows\"\n" +
		",0902,,,,\n" +
		"John,,,,,\n" +
		"\n" +
		"Bob,0903,not-an-email,,,\n" +
		"Ann,0904,,flipping,,\n"

	repo.On("BulkCreate", mock.Anything, mock.MatchedBy(func(clients []model.Client) bool {
		return len(clients) == 1 && clients[0].Name == "Jane" && clients[0].ServiceType == model.ServiceSelling &&
			clients[0].Budget.String() == "1500" && *clients[0].Notes == `likes "big" windows`
	})).Return(1, nil)

	svc.maxRows = 10
	res, err := svc.Import(context.Background(), strings.NewReader(csv), "en-US")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 4, res.Skipped)
	require.Len(t, res.Errors, 4)
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.Equal(t, "name", res.Errors[0].Field)
	assert.Equal(t, "phone", res.Errors[1].Field)
	assert.Equal(t, "email", res.Errors[2].Field)
}

func TestImport_Failures(t *testing.T) {
	svc := newService(new(mockRepo))

	_, err := svc.Import(context.Background(), strings.NewReader("name,email\nJane,j@x.io\n"), "en-US")
	var missing *csvutil.MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"phone"}, missing.Columns)

	res, err := svc.Import(context.Background(), strings.NewReader("name,phone\n,0901\n"), "en-US")
	assert.ErrorIs(t, err, tabular.ErrNoValidRows)
	assert.Equal(t, 1, res.Skipped)

	_, err = svc.Import(context.Background(), strings.NewReader("name,phone\na,1\nb,2\nc,3\nd,4\n"), "en-US")
	assert.ErrorIs(t, err, tabular.ErrTooManyRows)
}
