package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrquarshie/huddle/internal/domain"
	"github.com/mrquarshie/huddle/pkg/apperrors"
	"github.com/mrquarshie/huddle/pkg/pagination"
)

func newUserService(
	userRepo *mockUserRepository,
	itemRepo *mockItemRepository,
	reviewRepo *mockReviewRepository,
	producer *mockPublisher,
) *UserService {
	return NewUserService(userRepo, itemRepo, reviewRepo, newTestJWTManager(), producer, newTestLogger())
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Name:       "Kofi Mensah",
		Email:      "Kofi.Mensah@st.ug.edu.gh",
		Password:   "hunter22",
		Phone:      "0244123456",
		University: "University of Ghana",
		Campus:     "Legon",
		Role:       "seller",
	}
}

func TestRegister_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	itemRepo := new(mockItemRepository)
	reviewRepo := new(mockReviewRepository)
	producer := new(mockPublisher)
	svc := newUserService(userRepo, itemRepo, reviewRepo, producer)
	ctx := context.Background()

	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	producer.On("PublishUserRegistered", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	result, err := svc.Register(ctx, validRegisterInput())

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.User.ID)
	assert.Equal(t, "kofi.mensah@st.ug.edu.gh", result.User.Email)
	assert.Equal(t, "University of Ghana", result.User.University)
	assert.Equal(t, domain.RoleSeller, result.User.Role)
	assert.NotEqual(t, "hunter22", result.User.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte("hunter22")))
	assert.NotZero(t, result.User.CreatedAt)

	userRepo.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestRegister_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "" }},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *RegisterInput) { in.Password = "abc" }},
		{"bad role", func(in *RegisterInput) { in.Role = "admin" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(mockUserRepository)
			svc := newUserService(userRepo, new(mockItemRepository), new(mockReviewRepository), new(mockPublisher))

			input := validRegisterInput()
			tt.mutate(&input)

			_, err := svc.Register(context.Background(), input)

			var valErr *apperrors.ValidationError
			require.ErrorAs(t, err, &valErr)
			userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_UnknownUniversity(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newUserService(userRepo, new(mockItemRepository), new(mockReviewRepository), new(mockPublisher))

	input := validRegisterInput()
	input.University = "Hogwarts"

	_, err := svc.Register(context.Background(), input)

	var valErr *apperrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Len(t, valErr.Violations, 1)
	assert.Equal(t, "university", valErr.Violations[0].Field)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := new(mockUserRepository)
	producer := new(mockPublisher)
	svc := newUserService(userRepo, new(mockItemRepository), new(mockReviewRepository), producer)
	ctx := context.Background()

	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("User already exists"))

	_, err := svc.Register(ctx, validRegisterInput())

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "User already exists", appErr.Message)
	producer.AssertNotCalled(t, "PublishUserRegistered", mock.Anything, mock.Anything)
}

// A broker outage must not fail the registration.
func TestRegister_PublishFailureIsNonFatal(t *testing.T) {
	userRepo := new(mockUserRepository)
	producer := new(mockPublisher)
	svc := newUserService(userRepo, new(mockItemRepository), new(mockReviewRepository), producer)
	ctx := context.Background()

	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	producer.On("PublishUserRegistered", ctx, mock.AnythingOfType("*domain.User")).
		Return(assert.AnError)

	result, err := svc.Register(ctx, validRegisterInput())

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestLogin_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newUserService(userRepo, new(mockItemRepository), new(mockReviewRepository), new(mockPublisher))
	ctx := context.Background()

	user := sampleUser("user-1")
	user.PasswordHash = hashForTest(t, "hunter22")
	userRepo.On("GetByEmail", ctx, "kofi.mensah@st.ug.edu.gh").Return(user, nil)

	result, err := svc.Login(ctx, LoginInput{Email: "Kofi.Mensah@st.ug.edu.gh", Password: "hunter22"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "user-1", result.User.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newUserService(userRepo, new(mockItemRepository), new(mockReviewRepository), new(mockPublisher))
	ctx := context.Background()

	user := sampleUser("user-1")
	user.PasswordHash = hashForTest(t, "hunter22")
	userRepo.On("GetByEmail", ctx, "kofi.mensah@st.ug.edu.gh").Return(user, nil)

	_, err := svc.Login(ctx, LoginInput{Email: "kofi.mensah@st.ug.edu.gh", Password: "wrong"})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	assert.Equal(t, "Invalid credentials", appErr.Message)
}

func TestLogin_UnknownEmail(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newUserService(userRepo, new(mockItemRepository), new(mockReviewRepository), new(mockPublisher))
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "ghost@st.ug.edu.gh").Return(nil, apperrors.ErrNotFound)

	_, err := svc.Login(ctx, LoginInput{Email: "ghost@st.ug.edu.gh", Password: "whatever"})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	assert.Equal(t, "Invalid credentials", appErr.Message)
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	userRepo := new(mockUserRepository)
	producer := new(mockPublisher)
	svc := newUserService(userRepo, new(mockItemRepository), new(mockReviewRepository), producer)
	ctx := context.Background()

	user := sampleUser("user-1")
	userRepo.On("GetByID", ctx, "user-1").Return(user, nil)
	userRepo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	producer.On("PublishUserUpdated", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	updated, err := svc.UpdateProfile(ctx, "user-1", UpdateProfileInput{
		Name: strPtr("Kofi A. Mensah"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Kofi A. Mensah", updated.Name)
	assert.Equal(t, "0244123456", updated.Phone)
	userRepo.AssertExpectations(t)
}

func TestUpdateProfile_NotFound(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newUserService(userRepo, new(mockItemRepository), new(mockReviewRepository), new(mockPublisher))
	ctx := context.Background()

	userRepo.On("GetByID", ctx, "ghost").Return(nil, apperrors.ErrNotFound)

	_, err := svc.UpdateProfile(ctx, "ghost", UpdateProfileInput{Name: strPtr("Someone")})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "User not found", appErr.Message)
}

func TestProfile_Bundle(t *testing.T) {
	userRepo := new(mockUserRepository)
	itemRepo := new(mockItemRepository)
	reviewRepo := new(mockReviewRepository)
	svc := newUserService(userRepo, itemRepo, reviewRepo, new(mockPublisher))
	ctx := context.Background()

	user := sampleUser("seller-1")
	items := []*domain.Item{{ID: "item-1", SellerID: "seller-1", IsAvailable: true}}
	reviews := []*domain.Review{{ID: "r-1", ReviewedUserID: "seller-1", Rating: 4}}

	userRepo.On("GetByID", ctx, "seller-1").Return(user, nil)
	itemRepo.On("ListBySeller", ctx, "seller-1", true, pagination.Params{Page: 1, Limit: 20}).
		Return(items, 1, nil)
	reviewRepo.On("ListAllByReviewedUser", ctx, "seller-1").Return(reviews, nil)
	reviewRepo.On("Summary", ctx, "seller-1").Return(4.0, 1, nil)
	reviewRepo.On("Exists", ctx, "viewer-1", "seller-1").Return(false, nil)

	profile, err := svc.Profile(ctx, "seller-1", "viewer-1")

	require.NoError(t, err)
	assert.Equal(t, "seller-1", profile.User.ID)
	assert.Len(t, profile.Items, 1)
	assert.Len(t, profile.Reviews, 1)
	assert.Equal(t, 4.0, profile.AverageRating)
	assert.Equal(t, 1, profile.RatingCount)
	assert.True(t, profile.CanReview)
}

func TestProfile_AnonymousViewerCannotReview(t *testing.T) {
	userRepo := new(mockUserRepository)
	itemRepo := new(mockItemRepository)
	reviewRepo := new(mockReviewRepository)
	svc := newUserService(userRepo, itemRepo, reviewRepo, new(mockPublisher))
	ctx := context.Background()

	userRepo.On("GetByID", ctx, "seller-1").Return(sampleUser("seller-1"), nil)
	itemRepo.On("ListBySeller", ctx, "seller-1", true, mock.Anything).
		Return([]*domain.Item{}, 0, nil)
	reviewRepo.On("ListAllByReviewedUser", ctx, "seller-1").Return([]*domain.Review{}, nil)
	reviewRepo.On("Summary", ctx, "seller-1").Return(0.0, 0, nil)

	profile, err := svc.Profile(ctx, "seller-1", "")

	require.NoError(t, err)
	assert.False(t, profile.CanReview)
	assert.Equal(t, 0.0, profile.AverageRating)
	reviewRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfile_OwnProfileCannotReview(t *testing.T) {
	userRepo := new(mockUserRepository)
	itemRepo := new(mockItemRepository)
	reviewRepo := new(mockReviewRepository)
	svc := newUserService(userRepo, itemRepo, reviewRepo, new(mockPublisher))
	ctx := context.Background()

	userRepo.On("GetByID", ctx, "seller-1").Return(sampleUser("seller-1"), nil)
	itemRepo.On("ListBySeller", ctx, "seller-1", true, mock.Anything).
		Return([]*domain.Item{}, 0, nil)
	reviewRepo.On("ListAllByReviewedUser", ctx, "seller-1").Return([]*domain.Review{}, nil)
	reviewRepo.On("Summary", ctx, "seller-1").Return(0.0, 0, nil)

	profile, err := svc.Profile(ctx, "seller-1", "seller-1")

	require.NoError(t, err)
	assert.False(t, profile.CanReview)
	reviewRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
}
