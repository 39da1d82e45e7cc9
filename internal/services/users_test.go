package services_test

import (
	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"

	"github.com/gofrs/uuid"
)

func (s *ServiceSuite) TestRegister_DuplicateEmailConflicts() {
	s.register("ada@example.com")

	_, err := s.users.Register(s.ctx, models.RegisterInput{Email: "ada@example.com", Password: "password123"})
	s.requireKind(err, apperrors.KindConflict)
	s.Equal("Email already in use", apperrors.PublicMessage(err))

	var count int64
	s.Require().NoError(s.pool.DB.Model(&models.User{}).Count(&count).Error)
	s.EqualValues(1, count)
}

func (s *ServiceSuite) TestRegister_HashesPassword() {
	user := s.register("ada@example.com")
	s.NotEqual("password123", user.PasswordHash)
	s.NotEmpty(user.PasswordHash)
}

func (s *ServiceSuite) TestLogin() {
	user := s.register("ada@example.com")

	result, err := s.users.Login(s.ctx, models.LoginInput{Email: "ada@example.com", Password: "password123"})
	s.Require().NoError(err)
	s.EqualValues(86400, result.ExpiresIn)
	s.Equal(user.ID, result.User.ID)

	claims, err := s.tokens.Verify(result.Token)
	s.Require().NoError(err)
	s.Equal(user.ID.String(), claims.Subject)
	s.Equal("ada@example.com", claims.Email)
}

func (s *ServiceSuite) TestLogin_InvalidCredentials() {
	s.register("ada@example.com")

	_, err := s.users.Login(s.ctx, models.LoginInput{Email: "ada@example.com", Password: "wrong-password"})
	s.requireKind(err, apperrors.KindAuthentication)

	_, err = s.users.Login(s.ctx, models.LoginInput{Email: "nobody@example.com", Password: "password123"})
	s.requireKind(err, apperrors.KindAuthentication)
}

func (s *ServiceSuite) TestMe() {
	user := s.register("ada@example.com")

	profile, err := s.users.Me(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("ada@example.com", profile.Email)

	_, err = s.users.Me(s.ctx, uuid.Must(uuid.NewV4()))
	s.requireKind(err, apperrors.KindAuthentication)
}

func (s *ServiceSuite) TestList_OnlySelf() {
	ada := s.register("ada@example.com")
	s.register("grace@example.com")

	profiles, err := s.users.List(s.ctx, ada.ID)
	s.Require().NoError(err)
	s.Require().Len(profiles, 1)
	s.Equal(ada.ID, profiles[0].ID)
}

func (s *ServiceSuite) TestProfile_OtherUserIsForbidden() {
	ada := s.register("ada@example.com")
	grace := s.register("grace@example.com")

	_, err := s.users.Get(s.ctx, ada.ID, grace.ID)
	s.requireKind(err, apperrors.KindAuthorization)

	_, err = s.users.Update(s.ctx, ada.ID, grace.ID, models.UpdateUserInput{DisplayName: ptr("Mallory")})
	s.requireKind(err, apperrors.KindAuthorization)

	s.requireKind(s.users.Delete(s.ctx, ada.ID, grace.ID), apperrors.KindAuthorization)
}

func (s *ServiceSuite) TestUpdate_Profile() {
	ada := s.register("ada@example.com")

	profile, err := s.users.Update(s.ctx, ada.ID, ada.ID, models.UpdateUserInput{
		Email:       ptr("ada.lovelace@example.com"),
		DisplayName: ptr("Ada"),
	})
	s.Require().NoError(err)
	s.Equal("ada.lovelace@example.com", profile.Email)
	s.Require().NotNil(profile.DisplayName)
	s.Equal("Ada", *profile.DisplayName)
}

func (s *ServiceSuite) TestUpdate_EmailTakenConflicts() {
	ada := s.register("ada@example.com")
	s.register("grace@example.com")

	_, err := s.users.Update(s.ctx, ada.ID, ada.ID, models.UpdateUserInput{Email: ptr("grace@example.com")})
	s.requireKind(err, apperrors.KindConflict)
}

func (s *ServiceSuite) TestUpdate_PasswordRules() {
	ada := s.register("ada@example.com")

	_, err := s.users.Update(s.ctx, ada.ID, ada.ID, models.UpdateUserInput{NewPassword: ptr("new-password")})
	s.requireKind(err, apperrors.KindValidation)
	s.Equal("Current password required to set a new password", apperrors.PublicMessage(err))

	_, err = s.users.Update(s.ctx, ada.ID, ada.ID, models.UpdateUserInput{
		CurrentPassword: ptr("not-the-password"),
		NewPassword:     ptr("new-password"),
	})
	s.requireKind(err, apperrors.KindValidation)
	s.Equal("Current password is incorrect", apperrors.PublicMessage(err))

	_, err = s.users.Update(s.ctx, ada.ID, ada.ID, models.UpdateUserInput{
		CurrentPassword: ptr("password123"),
		NewPassword:     ptr("new-password"),
	})
	s.Require().NoError(err)

	_, err = s.users.Login(s.ctx, models.LoginInput{Email: "ada@example.com", Password: "new-password"})
	s.NoError(err)
}

func (s *ServiceSuite) TestDelete_CascadesTasks() {
	ada := s.register("ada@example.com")
	s.createTask(ada.ID, models.CreateTaskInput{Title: "one"})
	s.createTask(ada.ID, models.CreateTaskInput{Title: "two"})

	s.Require().NoError(s.users.Delete(s.ctx, ada.ID, ada.ID))

	var count int64
	s.Require().NoError(s.pool.DB.Model(&models.Task{}).Where("owner_id = ?", ada.ID).Count(&count).Error)
	s.Zero(count)

	_, err := s.users.Get(s.ctx, ada.ID, ada.ID)
	s.requireKind(err, apperrors.KindNotFound)
}
