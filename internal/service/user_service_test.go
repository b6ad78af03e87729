package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/models"
	appErrors "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/errors"
)

func TestUserServiceRegister(t *testing.T) {
	svc := NewUserService(newTestRecords(t), testCenters(), nil, nil)
	ctx := context.Background()

	profile, err := svc.Register(ctx, RegisterRequest{VolunteerID: " 25ngp001 ", Name: "Meera", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "25NGP001", profile.VolunteerID)

	_, err = svc.Register(ctx, RegisterRequest{VolunteerID: "25NGP001", Name: "Meera", Password: "other"})
	assert.ErrorIs(t, err, appErrors.ErrAlreadyRegistered)

	_, err = svc.Register(ctx, RegisterRequest{VolunteerID: "25XYZ001", Name: "Nope", Password: "x"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Register(ctx, RegisterRequest{VolunteerID: "25MDA002"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestUserServiceAuthenticateDefaultUser(t *testing.T) {
	svc := NewUserService(newTestRecords(t), testCenters(), nil, nil)

	res, err := svc.Authenticate(context.Background(), LoginRequest{VolunteerID: "25mda177", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, "Preet Patil", res.User.Name)
	assert.Equal(t, "MDA", res.CityCode)
	require.Len(t, res.Centers, 1)
	assert.Equal(t, "MDA-01", res.Centers[0].ID)

	_, err = svc.Authenticate(context.Background(), LoginRequest{VolunteerID: "25MDA177", Password: "wrong"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), LoginRequest{VolunteerID: "nobody", Password: "password"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestUserServiceAuthenticateWithoutCityCode(t *testing.T) {
	store := newTestRecords(t)
	require.True(t, store.AddUser(context.Background(), models.User{VolunteerID: "LEGACY1", Name: "Old", Password: "pw"}))
	svc := NewUserService(store, testCenters(), nil, nil)

	_, err := svc.Authenticate(context.Background(), LoginRequest{VolunteerID: "legacy1", Password: "pw"})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestUserServiceUpdate(t *testing.T) {
	svc := NewUserService(newTestRecords(t), testCenters(), nil, nil)
	ctx := context.Background()
	name := "Preet P."
	password := "new-pass"

	profile, err := svc.Update(ctx, "25mda177", UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Preet P.", profile.Name)

	_, err = svc.Update(ctx, "25MDA177", UpdateUserRequest{Password: &password})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, LoginRequest{VolunteerID: "25MDA177", Password: "password"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
	res, err := svc.Authenticate(ctx, LoginRequest{VolunteerID: "25MDA177", Password: "new-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Preet P.", res.User.Name)

	_, err = svc.Update(ctx, "25MDA999", UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, appErrors.ErrUserNotFound)
}
