package policy

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/coderr-backend/internal/models"
)

func businessActor() Actor {
	id := uuid.New()
	return Actor{
		UserID:  id,
		Profile: &models.Profile{UserID: id, Type: models.ProfileTypeBusiness},
	}
}

func customerActor() Actor {
	id := uuid.New()
	return Actor{
		UserID:  id,
		Profile: &models.Profile{UserID: id, Type: models.ProfileTypeCustomer},
	}
}

func TestRequireBusiness(t *testing.T) {
	assert.Nil(t, RequireBusiness(businessActor()))

	err := RequireBusiness(customerActor())
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.HTTPStatus)
}

func TestRequireBusiness_NoProfile(t *testing.T) {
	// Отказ из-за отсутствия профиля отличается от отказа из-за роли.
	err := RequireBusiness(Actor{UserID: uuid.New()})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.HTTPStatus)
	assert.Equal(t, "профиль пользователя не найден", err.Message)

	roleErr := RequireBusiness(customerActor())
	require.NotNil(t, roleErr)
	assert.NotEqual(t, err.Message, roleErr.Message)
}

func TestRequireCustomer(t *testing.T) {
	assert.Nil(t, RequireCustomer(customerActor()))
	assert.NotNil(t, RequireCustomer(businessActor()))
	assert.NotNil(t, RequireCustomer(Actor{UserID: uuid.New()}))
}

func TestRequireProfileOwner(t *testing.T) {
	actor := customerActor()

	assert.Nil(t, RequireProfileOwner(actor, actor.Profile))
	assert.NotNil(t, RequireProfileOwner(actor, &models.Profile{UserID: uuid.New()}))
}

func TestRequireOfferOwner(t *testing.T) {
	actor := businessActor()
	own := &models.Offer{UserID: actor.UserID}
	foreign := &models.Offer{UserID: uuid.New()}

	assert.Nil(t, RequireOfferOwner(actor, own))
	assert.NotNil(t, RequireOfferOwner(actor, foreign))

	// Сотрудник не имеет исключения для чужих офферов.
	staff := Actor{UserID: uuid.New(), IsStaff: true}
	assert.NotNil(t, RequireOfferOwner(staff, foreign))
}

func TestRequireOrderParty(t *testing.T) {
	customer := uuid.New()
	business := uuid.New()
	order := &models.Order{CustomerUserID: customer, BusinessUserID: business}

	assert.Nil(t, RequireOrderParty(Actor{UserID: customer}, order))
	assert.Nil(t, RequireOrderParty(Actor{UserID: business}, order))
	assert.NotNil(t, RequireOrderParty(Actor{UserID: uuid.New()}, order))
}

func TestRequireOrderBusiness(t *testing.T) {
	customer := uuid.New()
	business := uuid.New()
	order := &models.Order{CustomerUserID: customer, BusinessUserID: business}

	assert.Nil(t, RequireOrderBusiness(Actor{UserID: business}, order))
	assert.NotNil(t, RequireOrderBusiness(Actor{UserID: customer}, order))
}

func TestCanDeleteOrder(t *testing.T) {
	customer := uuid.New()
	business := uuid.New()
	order := &models.Order{CustomerUserID: customer, BusinessUserID: business}

	// Удаление доступно обеим сторонам и сотрудникам.
	assert.Nil(t, CanDeleteOrder(Actor{UserID: customer}, order))
	assert.Nil(t, CanDeleteOrder(Actor{UserID: business}, order))
	assert.Nil(t, CanDeleteOrder(Actor{UserID: uuid.New(), IsStaff: true}, order))
	assert.NotNil(t, CanDeleteOrder(Actor{UserID: uuid.New()}, order))
}

func TestRequireReviewer(t *testing.T) {
	reviewer := uuid.New()
	review := &models.Review{ReviewerID: reviewer}

	assert.Nil(t, RequireReviewer(Actor{UserID: reviewer}, review))
	assert.NotNil(t, RequireReviewer(Actor{UserID: uuid.New()}, review))

	// Для отзывов исключения нет даже у сотрудников.
	assert.NotNil(t, RequireReviewer(Actor{UserID: uuid.New(), IsStaff: true}, review))
}

func TestActorHelpers(t *testing.T) {
	assert.False(t, Actor{}.HasProfile())
	assert.False(t, Actor{}.IsBusiness())
	assert.False(t, Actor{}.IsCustomer())
	assert.True(t, businessActor().IsBusiness())
	assert.True(t, customerActor().IsCustomer())
}
