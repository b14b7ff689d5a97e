//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/config"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/database"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/repository"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("workshophub"),
		postgres.WithUsername("hub"),
		postgres.WithPassword("hub"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start postgres: %v\n", err)
		return 1
	}
	defer func() { _ = pg.Terminate(ctx) }()

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "connection string: %v\n", err)
		return 1
	}
	testPool, err = database.NewPool(ctx, config.DatabaseConfig{URL: dsn}, zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		return 1
	}
	defer testPool.Close()

	if _, err := database.Migrate(ctx, testPool, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		return 1
	}
	return m.Run()
}

type repos struct {
	events *repository.EventRepository
	slots  *repository.SlotRepository
	topics *repository.TopicRepository
	regs   *repository.RegistrationRepository
}

func setup(t *testing.T) repos {
	t.Helper()
	require.NoError(t, database.Truncate(context.Background(), testPool))
	return repos{
		events: repository.NewEventRepository(testPool),
		slots:  repository.NewSlotRepository(testPool),
		topics: repository.NewTopicRepository(testPool),
		regs:   repository.NewRegistrationRepository(testPool),
	}
}

// workshop creates one event with one slot holding a topic of the given
// capacity.
func (r repos) workshop(t *testing.T, capacity int) (*model.Event, *model.Slot, *model.Topic) {
	t.Helper()
	ctx := context.Background()

	event, err := r.events.Create(ctx, model.EventRequest{Name: "Cardiology Workshop"})
	require.NoError(t, err)
	slot, err := r.slots.Create(ctx, model.CreateSlotRequest{Name: "Morning", Date: "2024-01-15", Time: "09:00 - 10:20", EventID: event.ID})
	require.NoError(t, err)
	return event, slot, r.topic(t, slot.ID, "Imaging", capacity)
}

func (r repos) topic(t *testing.T, slotID, title string, capacity int) *model.Topic {
	t.Helper()
	topic, err := r.topics.Create(context.Background(), model.TopicRequest{
		Title: title, Description: "d", Instructor: "Dr. Rao", MaxParticipants: capacity, SlotID: slotID,
	})
	require.NoError(t, err)
	return topic
}

func TestMigrate_Idempotent(t *testing.T) {
	applied, err := database.Migrate(context.Background(), testPool, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestEventRepository_GetByIDOrUUID(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	event, _, _ := r.workshop(t, 5)

	byID, err := r.events.Get(ctx, event.ID)
	require.NoError(t, err)
	byUUID, err := r.events.Get(ctx, event.UUID)
	require.NoError(t, err)
	assert.Equal(t, byID.ID, byUUID.ID)

	_, err = r.events.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSlotRepository_CreateForMissingEvent(t *testing.T) {
	r := setup(t)
	_, err := r.slots.Create(context.Background(), model.CreateSlotRequest{Name: "x", Date: "d", Time: "t", EventID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBook_CapacityAndSameSlotMove(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	_, slot, imaging := r.workshop(t, 1)
	echo := r.topic(t, slot.ID, "Echo", 1)

	reg, outcome, err := r.regs.Book(ctx, model.RegisterRequest{Email: "a@example.com", SlotID: slot.ID, TopicID: imaging.ID})
	require.NoError(t, err)
	assert.Equal(t, model.BookingCreated, outcome)
	assert.Equal(t, "Imaging", reg.Topic.Title)
	assert.Equal(t, "Cardiology Workshop", reg.Slot.Event.Name)

	_, _, err = r.regs.Book(ctx, model.RegisterRequest{Email: "b@example.com", SlotID: slot.ID, TopicID: imaging.ID})
	assert.ErrorIs(t, err, repository.ErrTopicFull)

	moved, outcome, err := r.regs.Book(ctx, model.RegisterRequest{Email: "a@example.com", SlotID: slot.ID, TopicID: echo.ID})
	require.NoError(t, err)
	assert.Equal(t, model.BookingUpdated, outcome)
	assert.Equal(t, reg.ID, moved.ID)
	assert.Equal(t, echo.ID, moved.TopicID)

	// The move freed the place on Imaging.
	_, _, err = r.regs.Book(ctx, model.RegisterRequest{Email: "b@example.com", SlotID: slot.ID, TopicID: imaging.ID})
	require.NoError(t, err)

	all, err := r.regs.List(ctx, model.RegistrationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBook_Rejections(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	event, _, topic := r.workshop(t, 5)
	other, err := r.slots.Create(ctx, model.CreateSlotRequest{Name: "Afternoon", Date: "d", Time: "t", EventID: event.ID})
	require.NoError(t, err)

	_, _, err = r.regs.Book(ctx, model.RegisterRequest{Email: "a@example.com", SlotID: other.ID, TopicID: topic.ID})
	assert.ErrorIs(t, err, repository.ErrTopicSlotMismatch)

	_, _, err = r.regs.Book(ctx, model.RegisterRequest{Email: "a@example.com", SlotID: other.ID, TopicID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBook_ConcurrentNeverExceedsCapacity(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	const capacity, attendees = 3, 20
	_, slot, topic := r.workshop(t, capacity)

	var (
		wg     sync.WaitGroup
		booked atomic.Int32
		full   atomic.Int32
	)
	for i := range attendees {
		wg.Go(func() {
			_, _, err := r.regs.Book(ctx, model.RegisterRequest{
				Email:   fmt.Sprintf("user%d@example.com", i),
				SlotID:  slot.ID,
				TopicID: topic.ID,
			})
			switch {
			case err == nil:
				booked.Add(1)
			case errors.Is(err, repository.ErrTopicFull):
				full.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
	wg.Wait()

	assert.EqualValues(t, capacity, booked.Load())
	assert.EqualValues(t, attendees-capacity, full.Load())

	got, err := r.topics.GetByID(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, got.RegistrationCount)
}

func TestTopicUpdate_SlotMoveBlockedByRegistrations(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	event, slot, topic := r.workshop(t, 5)
	other, err := r.slots.Create(ctx, model.CreateSlotRequest{Name: "Afternoon", Date: "d", Time: "t", EventID: event.ID})
	require.NoError(t, err)
	move := model.TopicRequest{Title: "Imaging", Description: "d", Instructor: "Dr. Rao", MaxParticipants: 5, SlotID: other.ID}

	empty := r.topic(t, slot.ID, "Echo", 5)
	moved, err := r.topics.Update(ctx, empty.ID, move)
	require.NoError(t, err)
	assert.Equal(t, other.ID, moved.SlotID)

	_, _, err = r.regs.Book(ctx, model.RegisterRequest{Email: "a@example.com", SlotID: slot.ID, TopicID: topic.ID})
	require.NoError(t, err)
	_, err = r.topics.Update(ctx, topic.ID, move)
	assert.ErrorIs(t, err, repository.ErrTopicHasRegistrations)

	_, err = r.topics.Update(ctx, "missing", move)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteEvent_Cascades(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	event, slot, topic := r.workshop(t, 5)
	reg, _, err := r.regs.Book(ctx, model.RegisterRequest{Email: "a@example.com", SlotID: slot.ID, TopicID: topic.ID})
	require.NoError(t, err)

	require.NoError(t, r.events.Delete(ctx, event.ID))

	_, err = r.slots.GetByID(ctx, slot.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.topics.GetByID(ctx, topic.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.regs.GetByID(ctx, reg.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, r.events.Delete(ctx, event.ID), repository.ErrNotFound)
}

func TestDeleteForEvent(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	event, slot, topic := r.workshop(t, 5)
	_, _, err := r.regs.Book(ctx, model.RegisterRequest{Email: "a@example.com", SlotID: slot.ID, TopicID: topic.ID})
	require.NoError(t, err)
	_, _, err = r.regs.Book(ctx, model.RegisterRequest{Email: "b@example.com", SlotID: slot.ID, TopicID: topic.ID})
	require.NoError(t, err)

	n, err := r.regs.DeleteForEvent(ctx, "a@example.com", event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	left, err := r.regs.List(ctx, model.RegistrationFilter{EventID: event.ID})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "b@example.com", left[0].Email)
}
