package donation

import (
	"annam-mithra-backend/domain"
	"annam-mithra-backend/entities"
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeDonationRepository struct {
	donations map[string]*entities.Donation
}

func newFakeDonationRepository() *fakeDonationRepository {
	return &fakeDonationRepository{donations: make(map[string]*entities.Donation)}
}

func (r *fakeDonationRepository) CreateDonation(ctx context.Context, d *entities.Donation) error {
	r.donations[d.ID.String()] = d
	return nil
}

func (r *fakeDonationRepository) GetDonationByID(ctx context.Context, id string) (*entities.Donation, error) {
	d, ok := r.donations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (r *fakeDonationRepository) GetActiveDonations(ctx context.Context, donorUID string) ([]*entities.Donation, error) {
	var result []*entities.Donation
	for _, d := range r.donations {
		if d.Status != "Active" && d.Status != "PartiallyAccepted" {
			continue
		}
		if donorUID != "" && d.DonorUID != donorUID {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

func (r *fakeDonationRepository) GetNearbyActive(ctx context.Context, lat, lng float64, radius float64) ([]*entities.Donation, error) {
	// The SQL prefilter is coarse on purpose; the fake returns everything
	// active and lets the service do the exact filtering.
	return r.GetActiveDonations(ctx, "")
}

func (r *fakeDonationRepository) UpdateDonationStatus(ctx context.Context, id string, status string) error {
	d, ok := r.donations[id]
	if !ok {
		return nil
	}
	d.Status = status
	return nil
}

func (r *fakeDonationRepository) WithDonationLock(ctx context.Context, id string, fn func(m DonationMutator, d *entities.Donation) error) error {
	d, ok := r.donations[id]
	if !ok {
		return domain.ErrDonationNotFound
	}
	return fn(&fakeDonationMutator{repo: r}, d)
}

type fakeDonationMutator struct {
	repo *fakeDonationRepository
}

func (m *fakeDonationMutator) UpdateFields(ctx context.Context, id string, updates map[string]interface{}) error {
	d := m.repo.donations[id]
	if v, ok := updates["food_name"]; ok {
		d.FoodName = v.(string)
	}
	if v, ok := updates["description"]; ok {
		d.Description = v.(string)
	}
	if v, ok := updates["quantity"]; ok {
		d.Quantity = v.(int)
	}
	if v, ok := updates["remaining_quantity"]; ok {
		d.RemainingQuantity = v.(int)
	}
	if v, ok := updates["status"]; ok {
		d.Status = v.(string)
	}
	return nil
}

func (m *fakeDonationMutator) UpdateStatus(ctx context.Context, id string, status string) error {
	m.repo.donations[id].Status = status
	return nil
}

func (m *fakeDonationMutator) UpdateInterestStatus(ctx context.Context, interestID string, status string) error {
	return nil
}

func (m *fakeDonationMutator) DecrementRemaining(ctx context.Context, id string, quantity int) error {
	d := m.repo.donations[id]
	if d.RemainingQuantity < quantity {
		return domain.ErrQuantityConflict
	}
	d.RemainingQuantity -= quantity
	return nil
}

type fakeUserRepository struct {
	users map[string]*entities.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*entities.User)}
}

func (r *fakeUserRepository) UpsertUser(ctx context.Context, u *entities.User, roles []string) error {
	r.users[u.UID] = u
	return nil
}

func (r *fakeUserRepository) GetUserByUID(ctx context.Context, uid string) (*entities.User, error) {
	u, ok := r.users[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepository) UpdateDeviceToken(ctx context.Context, uid string, token string) error {
	u, ok := r.users[uid]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.DeviceToken = token
	return nil
}

func (r *fakeUserRepository) GetReceiversNear(ctx context.Context, lat, lng float64, radius float64) ([]*entities.User, error) {
	return nil, nil
}

type fakeS3 struct{}

func (fakeS3) UploadFile(name string, file *multipart.FileHeader, dir string, allowedTypes ...string) (string, error) {
	return dir + "/" + name, nil
}

func (fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://cdn.example.com/" + objectKey
}

type fakeNotifier struct {
	newDonations      []*entities.Donation
	interestsReceived []*entities.Interest
	interestsAccepted []*entities.Interest
}

func (n *fakeNotifier) OnNewDonationNearby(d *entities.Donation) {
	n.newDonations = append(n.newDonations, d)
}

func (n *fakeNotifier) OnInterestReceived(i *entities.Interest, d *entities.Donation) {
	n.interestsReceived = append(n.interestsReceived, i)
}

func (n *fakeNotifier) OnInterestAccepted(i *entities.Interest, d *entities.Donation) {
	n.interestsAccepted = append(n.interestsAccepted, i)
}

func (n *fakeNotifier) OnChatMessage(m *entities.ChatMessage, room *entities.ChatRoom) {}

func newTestService() (DonationService, *fakeDonationRepository, *fakeUserRepository, *fakeNotifier) {
	donationRepo := newFakeDonationRepository()
	userRepo := newFakeUserRepository()
	notifier := &fakeNotifier{}
	service := NewDonationService(donationRepo, userRepo, fakeS3{}, notifier)
	return service, donationRepo, userRepo, notifier
}

func submitRequest() domain.SubmitDonationRequest {
	return domain.SubmitDonationRequest{
		Items: []domain.DonationItemRequest{
			{DishName: "Veg Biryani", Quantity: "5"},
			{DishName: "Chapati", Quantity: "3 plates"},
		},
		FoodType:           "Veg",
		TargetReceiverType: "Both",
		Latitude:           17.3850,
		Longitude:          78.4867,
		Address:            "Charminar, Hyderabad",
		ContactPhone:       "+911234567890",
	}
}

func TestSubmitCreatesOneDonationPerItem(t *testing.T) {
	service, repo, userRepo, notifier := newTestService()
	userRepo.users["donor-1"] = &entities.User{UID: "donor-1", Name: "Asha"}

	created, err := service.Submit(context.Background(), submitRequest(), "donor-1")
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Len(t, repo.donations, 2)

	assert.Equal(t, "Veg Biryani", created[0].FoodName)
	assert.Equal(t, 5, created[0].Quantity)
	assert.Equal(t, 5, created[0].RemainingQuantity)
	assert.Equal(t, "Chapati", created[1].FoodName)
	assert.Equal(t, 3, created[1].Quantity)

	for _, d := range created {
		assert.Equal(t, "Active", d.Status)
		assert.Equal(t, "Asha", d.DonorName)
		assert.True(t, d.ExpiresAt.After(time.Now()))
	}

	// One fanout push per created listing.
	assert.Len(t, notifier.newDonations, 2)
}

func TestSubmitUnknownDonor(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.Submit(context.Background(), submitRequest(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownDonor)
}

func TestSubmitRejectsEmptyItems(t *testing.T) {
	service, _, userRepo, _ := newTestService()
	userRepo.users["donor-1"] = &entities.User{UID: "donor-1"}

	req := submitRequest()
	req.Items = nil
	_, err := service.Submit(context.Background(), req, "donor-1")
	assert.ErrorIs(t, err, domain.ErrNoDonationItems)

	req = submitRequest()
	req.Items = []domain.DonationItemRequest{{DishName: "   ", Quantity: "2"}}
	_, err = service.Submit(context.Background(), req, "donor-1")
	assert.ErrorIs(t, err, domain.ErrNoDonationItems)
}

func TestParseQuantity(t *testing.T) {
	cases := map[string]int{
		"5":        5,
		"3 plates": 3,
		"  12  ":   12,
		"007":      7,
		"plates":   1,
		"":         1,
		"0":        1,
		"99999999": 1, // over the sanity cap
	}
	for raw, want := range cases {
		assert.Equal(t, want, parseQuantity(raw), "raw=%q", raw)
	}
}

func TestNearbyFiltersByRadius(t *testing.T) {
	service, repo, _, _ := newTestService()

	near := &entities.Donation{
		ID: uuid.New(), DonorUID: "d1", FoodName: "Close",
		Latitude: 17.3850, Longitude: 78.4867,
		FoodType: "Veg", TargetReceiverType: "Both",
		Status: "Active", ExpiresAt: time.Now().Add(time.Hour),
	}
	far := &entities.Donation{
		ID: uuid.New(), DonorUID: "d2", FoodName: "Farther",
		Latitude: 17.3950, Longitude: 78.4900, // about 1.2km away
		FoodType: "Veg", TargetReceiverType: "Both",
		Status: "Active", ExpiresAt: time.Now().Add(time.Hour),
	}
	repo.donations[near.ID.String()] = near
	repo.donations[far.ID.String()] = far

	req := domain.NearbyDonationsRequest{Latitude: 17.3850, Longitude: 78.4867, Radius: 2}
	result, err := service.Nearby(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, result, 2)

	req.Radius = 1
	result, err = service.Nearby(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Close", result[0].FoodName)
	assert.Equal(t, 0.0, result[0].Distance)
}

func TestNearbySkipsExpired(t *testing.T) {
	service, repo, _, _ := newTestService()

	expired := &entities.Donation{
		ID: uuid.New(), DonorUID: "d1", FoodName: "Stale",
		Latitude: 17.3850, Longitude: 78.4867,
		FoodType: "Veg", TargetReceiverType: "Both",
		Status: "Active", ExpiresAt: time.Now().Add(-time.Minute),
	}
	repo.donations[expired.ID.String()] = expired

	result, err := service.Nearby(context.Background(), domain.NearbyDonationsRequest{
		Latitude: 17.3850, Longitude: 78.4867, Radius: 5,
	})
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestReceiverTypeMatches(t *testing.T) {
	cases := []struct {
		target   string
		category string
		want     bool
	}{
		{"Both", "Individual", true},
		{"Both", "NGO", true},
		{"Individual", "Individual", true},
		{"Individual", "NGO", false},
		{"Individual", "Charity", false},
		{"NGO", "Individual", false},
		{"NGO", "NGO", true},
		{"NGO", "Charity", true},
		{"NGO", "Ashram", true},
		{"NGO", "Bulk", true},
		{"NGO", "", true}, // no category filter sees everything
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ReceiverTypeMatches(tc.target, tc.category),
			"target=%s category=%s", tc.target, tc.category)
	}
}

func TestAdjustQuantityEnforcesOwnership(t *testing.T) {
	service, repo, _, _ := newTestService()

	d := &entities.Donation{
		ID: uuid.New(), DonorUID: "owner", Quantity: 5, RemainingQuantity: 5,
		Status: "Active", ExpiresAt: time.Now().Add(time.Hour),
	}
	repo.donations[d.ID.String()] = d

	_, err := service.AdjustQuantity(context.Background(), d.ID.String(), 3, "intruder")
	assert.ErrorIs(t, err, domain.ErrUnauthorizedDonationAccess)

	updated, err := service.AdjustQuantity(context.Background(), d.ID.String(), 3, "owner")
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)
	assert.Equal(t, 3, updated.RemainingQuantity)
}

func TestRemoveCancelsDonation(t *testing.T) {
	service, repo, _, _ := newTestService()

	d := &entities.Donation{
		ID: uuid.New(), DonorUID: "owner",
		Status: "Active", ExpiresAt: time.Now().Add(time.Hour),
	}
	repo.donations[d.ID.String()] = d

	require.NoError(t, service.Remove(context.Background(), d.ID.String(), "owner"))
	assert.Equal(t, "Cancelled", d.Status)

	err := service.Remove(context.Background(), uuid.NewString(), "owner")
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)
}

func TestMarkCompletedIsIdempotent(t *testing.T) {
	service, repo, _, _ := newTestService()

	d := &entities.Donation{ID: uuid.New(), DonorUID: "owner", Status: "Active"}
	repo.donations[d.ID.String()] = d

	require.NoError(t, service.MarkCompleted(context.Background(), d.ID.String()))
	assert.Equal(t, "Completed", d.Status)

	require.NoError(t, service.MarkCompleted(context.Background(), d.ID.String()))
	assert.Equal(t, "Completed", d.Status)
}
