package interest

import (
	"annam-mithra-backend/domain"
	"annam-mithra-backend/entities"
	"annam-mithra-backend/pkg/chat"
	"annam-mithra-backend/pkg/donation"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeInterestRepository struct {
	interests map[string]*entities.Interest
}

func newFakeInterestRepository() *fakeInterestRepository {
	return &fakeInterestRepository{interests: make(map[string]*entities.Interest)}
}

func (r *fakeInterestRepository) CreateInterest(ctx context.Context, i *entities.Interest) error {
	r.interests[i.ID.String()] = i
	return nil
}

func (r *fakeInterestRepository) GetInterestByID(ctx context.Context, id string) (*entities.Interest, error) {
	i, ok := r.interests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return i, nil
}

func (r *fakeInterestRepository) GetPendingInterest(ctx context.Context, donationID string, receiverUID string) (*entities.Interest, error) {
	for _, i := range r.interests {
		if i.DonationID.String() == donationID && i.ReceiverUID == receiverUID && i.Status == "Pending" {
			return i, nil
		}
	}
	return nil, nil
}

func (r *fakeInterestRepository) GetInterestsForDonor(ctx context.Context, donorUID string) ([]*entities.Interest, error) {
	var result []*entities.Interest
	for _, i := range r.interests {
		if i.Donation != nil && i.Donation.DonorUID == donorUID {
			result = append(result, i)
		}
	}
	return result, nil
}

func (r *fakeInterestRepository) GetInterestsByReceiver(ctx context.Context, receiverUID string) ([]*entities.Interest, error) {
	var result []*entities.Interest
	for _, i := range r.interests {
		if i.ReceiverUID == receiverUID {
			result = append(result, i)
		}
	}
	return result, nil
}

func (r *fakeInterestRepository) UpdateInterestStatus(ctx context.Context, id string, status string) error {
	if i, ok := r.interests[id]; ok {
		i.Status = status
	}
	return nil
}

type fakeDonationRepository struct {
	donations map[string]*entities.Donation
	interests *fakeInterestRepository

	// When set, the next interest write inside the lock fails once.
	failInterestUpdate bool
}

func newFakeDonationRepository(interests *fakeInterestRepository) *fakeDonationRepository {
	return &fakeDonationRepository{
		donations: make(map[string]*entities.Donation),
		interests: interests,
	}
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
	return nil, nil
}

func (r *fakeDonationRepository) GetNearbyActive(ctx context.Context, lat, lng float64, radius float64) ([]*entities.Donation, error) {
	return nil, nil
}

func (r *fakeDonationRepository) UpdateDonationStatus(ctx context.Context, id string, status string) error {
	if d, ok := r.donations[id]; ok {
		d.Status = status
	}
	return nil
}

func (r *fakeDonationRepository) WithDonationLock(ctx context.Context, id string, fn func(m donation.DonationMutator, d *entities.Donation) error) error {
	d, ok := r.donations[id]
	if !ok {
		return domain.ErrDonationNotFound
	}

	// Emulate transactional behaviour: an error inside the callback rolls
	// the donation and its interest statuses back to their prior state.
	saved := *d
	savedStatuses := make(map[string]string, len(r.interests.interests))
	for key, i := range r.interests.interests {
		savedStatuses[key] = i.Status
	}

	if err := fn(&fakeMutator{repo: r}, d); err != nil {
		*d = saved
		for key, status := range savedStatuses {
			r.interests.interests[key].Status = status
		}
		return err
	}
	return nil
}

type fakeMutator struct {
	repo *fakeDonationRepository
}

func (m *fakeMutator) UpdateFields(ctx context.Context, id string, updates map[string]interface{}) error {
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

func (m *fakeMutator) UpdateStatus(ctx context.Context, id string, status string) error {
	m.repo.donations[id].Status = status
	return nil
}

func (m *fakeMutator) DecrementRemaining(ctx context.Context, id string, quantity int) error {
	d := m.repo.donations[id]
	if d.RemainingQuantity < quantity {
		return domain.ErrQuantityConflict
	}
	d.RemainingQuantity -= quantity
	return nil
}

func (m *fakeMutator) UpdateInterestStatus(ctx context.Context, interestID string, status string) error {
	if m.repo.failInterestUpdate {
		m.repo.failInterestUpdate = false
		return errors.New("connection reset by peer")
	}
	if i, ok := m.repo.interests.interests[interestID]; ok {
		i.Status = status
	}
	return nil
}

type fakeChatService struct {
	ensuredRooms []string
	hub          *chat.Hub
}

func (s *fakeChatService) EnsureRoom(ctx context.Context, donationID uuid.UUID, uidA string, uidB string) (*entities.ChatRoom, error) {
	key := chat.RoomKey(donationID.String(), uidA, uidB)
	s.ensuredRooms = append(s.ensuredRooms, key)
	first, second := chat.SortParticipants(uidA, uidB)
	return &entities.ChatRoom{RoomKey: key, DonationID: donationID, ParticipantA: first, ParticipantB: second}, nil
}

func (s *fakeChatService) SendMessage(ctx context.Context, req domain.SendChatMessageRequest, senderUID string) (*domain.ChatMessage, error) {
	return nil, nil
}

func (s *fakeChatService) ListRooms(ctx context.Context, uid string) ([]*domain.ChatRoom, error) {
	return nil, nil
}

func (s *fakeChatService) ListMessages(ctx context.Context, donationID string, otherUID string, requesterUID string) ([]*domain.ChatMessage, error) {
	return nil, nil
}

func (s *fakeChatService) MarkRead(ctx context.Context, donationID string, otherUID string, requesterUID string) error {
	return nil
}

func (s *fakeChatService) AuthorizeRoom(ctx context.Context, roomKey string, uid string) (*entities.ChatRoom, error) {
	return nil, nil
}

func (s *fakeChatService) Hub() *chat.Hub {
	if s.hub == nil {
		s.hub = chat.NewHub()
	}
	return s.hub
}

type fakeBadgeService struct {
	evaluated []string
}

func (s *fakeBadgeService) EvaluateDonor(ctx context.Context, donorUID string) {
	s.evaluated = append(s.evaluated, donorUID)
}

func (s *fakeBadgeService) ListBadges(ctx context.Context, uid string) ([]*domain.Badge, error) {
	return nil, nil
}

type fakeNotifier struct {
	received []*entities.Interest
	accepted []*entities.Interest
}

func (n *fakeNotifier) OnNewDonationNearby(d *entities.Donation) {}

func (n *fakeNotifier) OnInterestReceived(i *entities.Interest, d *entities.Donation) {
	n.received = append(n.received, i)
}

func (n *fakeNotifier) OnInterestAccepted(i *entities.Interest, d *entities.Donation) {
	n.accepted = append(n.accepted, i)
}

func (n *fakeNotifier) OnChatMessage(m *entities.ChatMessage, room *entities.ChatRoom) {}

type testEnv struct {
	service      InterestService
	interestRepo *fakeInterestRepository
	donationRepo *fakeDonationRepository
	chatService  *fakeChatService
	badgeService *fakeBadgeService
	notifier     *fakeNotifier
}

func newTestEnv() *testEnv {
	interestRepo := newFakeInterestRepository()
	env := &testEnv{
		interestRepo: interestRepo,
		donationRepo: newFakeDonationRepository(interestRepo),
		chatService:  &fakeChatService{},
		badgeService: &fakeBadgeService{},
		notifier:     &fakeNotifier{},
	}
	env.service = NewInterestService(env.interestRepo, env.donationRepo, env.chatService, env.badgeService, env.notifier)
	return env
}

func (e *testEnv) addDonation(donorUID string, remaining int) *entities.Donation {
	d := &entities.Donation{
		ID:                uuid.New(),
		DonorUID:          donorUID,
		FoodName:          "Veg Biryani",
		Quantity:          remaining,
		RemainingQuantity: remaining,
		Status:            "Active",
		ExpiresAt:         time.Now().Add(time.Hour),
	}
	e.donationRepo.donations[d.ID.String()] = d
	return d
}

func (e *testEnv) addPendingInterest(d *entities.Donation, receiverUID string, requested int) *entities.Interest {
	i := &entities.Interest{
		ID:                uuid.New(),
		DonationID:        d.ID,
		ReceiverUID:       receiverUID,
		QuantityRequested: requested,
		Status:            "Pending",
		Donation:          d,
	}
	e.interestRepo.interests[i.ID.String()] = i
	return i
}

func TestRequestInterestSnapshotsQuantity(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)

	created, err := env.service.RequestInterest(context.Background(), domain.CreateInterestRequest{
		DonationID: d.ID.String(),
		Message:    "For our shelter",
	}, "receiver-1")
	require.NoError(t, err)

	assert.Equal(t, 5, created.QuantityRequested)
	assert.Equal(t, "Pending", created.Status)
	require.Len(t, env.notifier.received, 1)

	// A later donor edit must not change what was asked for.
	d.RemainingQuantity = 2
	stored := env.interestRepo.interests[created.ID]
	assert.Equal(t, 5, stored.QuantityRequested)
}

func TestRequestInterestRejectsOwnDonation(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)

	_, err := env.service.RequestInterest(context.Background(), domain.CreateInterestRequest{
		DonationID: d.ID.String(),
	}, "donor-1")
	assert.ErrorIs(t, err, domain.ErrOwnInterest)
}

func TestRequestInterestRejectsDuplicatePending(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)
	env.addPendingInterest(d, "receiver-1", 5)

	_, err := env.service.RequestInterest(context.Background(), domain.CreateInterestRequest{
		DonationID: d.ID.String(),
	}, "receiver-1")
	assert.ErrorIs(t, err, domain.ErrDuplicateInterest)
}

func TestRequestInterestRejectsInactiveDonation(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)
	d.Status = "Cancelled"

	_, err := env.service.RequestInterest(context.Background(), domain.CreateInterestRequest{
		DonationID: d.ID.String(),
	}, "receiver-1")
	assert.ErrorIs(t, err, domain.ErrDonationNotActive)

	_, err = env.service.RequestInterest(context.Background(), domain.CreateInterestRequest{
		DonationID: uuid.NewString(),
	}, "receiver-1")
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)
}

func TestAcceptRemoveCompletesDonation(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)
	i := env.addPendingInterest(d, "receiver-1", 5)

	accepted, err := env.service.AcceptInterest(context.Background(), domain.AcceptInterestRequest{
		InterestID: i.ID.String(),
		DonationID: d.ID.String(),
		Action:     "remove",
	}, "donor-1")
	require.NoError(t, err)

	assert.Equal(t, "Accepted", accepted.Status)
	assert.Equal(t, "Completed", d.Status)
	assert.Equal(t, 0, d.RemainingQuantity)
	assert.Len(t, env.chatService.ensuredRooms, 1)
	assert.Len(t, env.notifier.accepted, 1)
	assert.Equal(t, []string{"donor-1"}, env.badgeService.evaluated)
}

func TestAcceptKeepPartialDecrement(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)
	i := env.addPendingInterest(d, "receiver-1", 2)

	_, err := env.service.AcceptInterest(context.Background(), domain.AcceptInterestRequest{
		InterestID: i.ID.String(),
		DonationID: d.ID.String(),
		Action:     "keep",
	}, "donor-1")
	require.NoError(t, err)

	assert.Equal(t, 3, d.RemainingQuantity)
	assert.Equal(t, "PartiallyAccepted", d.Status)
	// No completion happened, badges stay untouched.
	assert.Empty(t, env.badgeService.evaluated)
}

func TestAcceptKeepFullQuantityLeavesStatus(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)
	i := env.addPendingInterest(d, "receiver-1", 5)

	_, err := env.service.AcceptInterest(context.Background(), domain.AcceptInterestRequest{
		InterestID: i.ID.String(),
		DonationID: d.ID.String(),
		Action:     "keep",
	}, "donor-1")
	require.NoError(t, err)

	assert.Equal(t, 0, d.RemainingQuantity)
	assert.Equal(t, "Active", d.Status)
}

func TestAcceptKeepWithUpdatedFields(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)
	i := env.addPendingInterest(d, "receiver-1", 5)

	_, err := env.service.AcceptInterest(context.Background(), domain.AcceptInterestRequest{
		InterestID: i.ID.String(),
		DonationID: d.ID.String(),
		Action:     "keep",
		UpdatedFields: &domain.UpdatedDonationFields{
			Quantity: 10,
		},
	}, "donor-1")
	require.NoError(t, err)

	// The donor's restated quantity wins over the automatic decrement.
	assert.Equal(t, 10, d.Quantity)
	assert.Equal(t, 10, d.RemainingQuantity)
}

func TestAcceptInsufficientRemaining(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 1)
	i := env.addPendingInterest(d, "receiver-1", 3)

	_, err := env.service.AcceptInterest(context.Background(), domain.AcceptInterestRequest{
		InterestID: i.ID.String(),
		DonationID: d.ID.String(),
		Action:     "keep",
	}, "donor-1")
	assert.ErrorIs(t, err, domain.ErrQuantityConflict)
	assert.Equal(t, "Pending", i.Status)
}

func TestAcceptsNeverDriveRemainingNegative(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)
	first := env.addPendingInterest(d, "receiver-1", 3)
	second := env.addPendingInterest(d, "receiver-2", 3)

	_, err := env.service.AcceptInterest(context.Background(), domain.AcceptInterestRequest{
		InterestID: first.ID.String(),
		DonationID: d.ID.String(),
		Action:     "keep",
	}, "donor-1")
	require.NoError(t, err)
	assert.Equal(t, 2, d.RemainingQuantity)

	// The second accept would need 3 of the remaining 2: guarded decrement
	// refuses instead of going negative.
	_, err = env.service.AcceptInterest(context.Background(), domain.AcceptInterestRequest{
		InterestID: second.ID.String(),
		DonationID: d.ID.String(),
		Action:     "keep",
	}, "donor-1")
	assert.ErrorIs(t, err, domain.ErrQuantityConflict)
	assert.Equal(t, 2, d.RemainingQuantity)
	assert.Equal(t, "Pending", second.Status)
}

func TestAcceptRetryAfterStatusWriteFailure(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)
	i := env.addPendingInterest(d, "receiver-1", 2)

	req := domain.AcceptInterestRequest{
		InterestID: i.ID.String(),
		DonationID: d.ID.String(),
		Action:     "keep",
	}

	// The interest write fails after the decrement. Both live in the same
	// transaction, so the donation must come back untouched.
	env.donationRepo.failInterestUpdate = true
	_, err := env.service.AcceptInterest(context.Background(), req, "donor-1")
	require.Error(t, err)
	assert.Equal(t, 5, d.RemainingQuantity)
	assert.Equal(t, "Active", d.Status)
	assert.Equal(t, "Pending", i.Status)

	// Retrying consumes the interest exactly once.
	_, err = env.service.AcceptInterest(context.Background(), req, "donor-1")
	require.NoError(t, err)
	assert.Equal(t, 3, d.RemainingQuantity)
	assert.Equal(t, "Accepted", i.Status)
}

func TestAcceptEnforcesOwnership(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)
	i := env.addPendingInterest(d, "receiver-1", 5)

	_, err := env.service.AcceptInterest(context.Background(), domain.AcceptInterestRequest{
		InterestID: i.ID.String(),
		DonationID: d.ID.String(),
		Action:     "remove",
	}, "intruder")
	assert.ErrorIs(t, err, domain.ErrUnauthorizedDonationAccess)
}

func TestAcceptIsIdempotent(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)
	i := env.addPendingInterest(d, "receiver-1", 2)
	i.Status = "Accepted"

	accepted, err := env.service.AcceptInterest(context.Background(), domain.AcceptInterestRequest{
		InterestID: i.ID.String(),
		DonationID: d.ID.String(),
		Action:     "keep",
	}, "donor-1")
	require.NoError(t, err)
	assert.Equal(t, "Accepted", accepted.Status)
	// No second decrement.
	assert.Equal(t, 5, d.RemainingQuantity)
}

func TestAcceptMismatchedDonation(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)
	other := env.addDonation("donor-1", 5)
	i := env.addPendingInterest(d, "receiver-1", 5)

	_, err := env.service.AcceptInterest(context.Background(), domain.AcceptInterestRequest{
		InterestID: i.ID.String(),
		DonationID: other.ID.String(),
		Action:     "keep",
	}, "donor-1")
	assert.ErrorIs(t, err, domain.ErrInterestMismatch)
}

func TestDeclineIsIdempotent(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)
	i := env.addPendingInterest(d, "receiver-1", 5)

	req := domain.DeclineInterestRequest{InterestID: i.ID.String()}
	require.NoError(t, env.service.DeclineInterest(context.Background(), req, "donor-1"))
	assert.Equal(t, "Declined", i.Status)

	// Second decline is a no-op, not an error.
	require.NoError(t, env.service.DeclineInterest(context.Background(), req, "donor-1"))
}

func TestDeclineEnforcesOwnership(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)
	i := env.addPendingInterest(d, "receiver-1", 5)

	err := env.service.DeclineInterest(context.Background(), domain.DeclineInterestRequest{
		InterestID: i.ID.String(),
	}, "intruder")
	assert.ErrorIs(t, err, domain.ErrUnauthorizedDonationAccess)
}

func TestDeclineAcceptedInterest(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)
	i := env.addPendingInterest(d, "receiver-1", 5)
	i.Status = "Accepted"

	err := env.service.DeclineInterest(context.Background(), domain.DeclineInterestRequest{
		InterestID: i.ID.String(),
	}, "donor-1")
	assert.ErrorIs(t, err, domain.ErrInterestAlreadyClosed)
}

func TestListSentAndReceived(t *testing.T) {
	env := newTestEnv()
	d := env.addDonation("donor-1", 5)
	env.addPendingInterest(d, "receiver-1", 5)

	received, err := env.service.ListReceived(context.Background(), "donor-1")
	require.NoError(t, err)
	require.Len(t, received, 1)
	require.NotNil(t, received[0].Donation)
	assert.Equal(t, "Veg Biryani", received[0].Donation.FoodName)

	sent, err := env.service.ListSent(context.Background(), "receiver-1")
	require.NoError(t, err)
	assert.Len(t, sent, 1)
}
