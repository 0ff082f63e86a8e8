package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/coachlink/internal/adapter/repository/memstore"
	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/mocks"
	"github.com/johnquangdev/coachlink/internal/usecase/meeting"
)

func TestRegister(t *testing.T) {
	store := memstore.New()
	sender := &mocks.Sender{}
	svc := NewUserService(store.Users(), meeting.NewDispatcher(sender, store.Messages(), nil), "bot@coachlink.io", nil)

	u, err := svc.Register(context.Background(), RegisterInput{
		Name: " Sam ", Email: "Sam@X.com", Phone: "+1 (555) 000-1111", Timezone: "Mars/Olympus",
	})
	require.NoError(t, err)
	assert.Equal(t, "sam@x.com", u.Email)
	assert.Equal(t, "whatsapp:+15550001111", u.Phone)
	assert.Equal(t, "UTC", u.Timezone)

	stored, err := store.Users().FindByPhone(context.Background(), "whatsapp:+15550001111")
	require.NoError(t, err)
	assert.Equal(t, "Sam", stored.Name)

	sent := sender.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "whatsapp:+15550001111", sent[0].To)
	assert.Equal(t, meeting.WelcomeMessage("Sam", "bot@coachlink.io"), sent[0].Msg.Body)
}

func TestRegister_UpdatesExisting(t *testing.T) {
	store := memstore.New()
	svc := NewUserService(store.Users(), nil, "", nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Sam", Email: "sam@x.com", Phone: "+15550001111"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Name: "Samuel", Email: "sam@x.com", Phone: "+15550002222", Timezone: "Asia/Kolkata"})
	require.NoError(t, err)

	u, err := store.Users().FindByEmail(ctx, "sam@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Samuel", u.Name)
	assert.Equal(t, "whatsapp:+15550002222", u.Phone)
	assert.Equal(t, "Asia/Kolkata", u.Timezone)
}

func TestRegister_WelcomeFailureStillRegisters(t *testing.T) {
	store := memstore.New()
	sender := &mocks.Sender{Err: mocks.ErrUnavailable}
	svc := NewUserService(store.Users(), meeting.NewDispatcher(sender, store.Messages(), nil), "bot@x.com", nil)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Sam", Email: "sam@x.com", Phone: "+15550001111"})
	require.NoError(t, err)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewUserService(memstore.New().Users(), nil, "", nil)
	tests := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"no name", RegisterInput{Email: "a@b.com", Phone: "+1"}, entities.ErrInvalidName},
		{"bad email", RegisterInput{Name: "A", Email: "nope", Phone: "+1"}, entities.ErrInvalidEmail},
		{"no phone", RegisterInput{Name: "A", Email: "a@b.com", Phone: "  "}, entities.ErrInvalidPhone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
