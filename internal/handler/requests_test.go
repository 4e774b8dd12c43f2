package handler

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func failedTags(t *testing.T, err error) map[string]string {
	t.Helper()

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	tags := make(map[string]string, len(verrs))
	for _, verr := range verrs {
		tags[verr.Field()] = verr.Tag()
	}
	return tags
}

func TestCreateCampgroundRequestValidation(t *testing.T) {
	valid := CreateCampgroundRequest{
		Title:       "Misty Canyon",
		Location:    "Moab, Utah",
		Price:       ptr(24.5),
		Description: "Red rock views.",
	}
	assert.NoError(t, valid.Validate())

	t.Run("zero price is allowed", func(t *testing.T) {
		req := valid
		req.Price = ptr(0)
		assert.NoError(t, req.Validate())
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		req := valid
		req.Price = ptr(-1)
		tags := failedTags(t, req.Validate())
		assert.Equal(t, "gte", tags["Price"])
	})

	t.Run("missing price is rejected", func(t *testing.T) {
		req := valid
		req.Price = nil
		tags := failedTags(t, req.Validate())
		assert.Equal(t, "required", tags["Price"])
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		tags := failedTags(t, (&CreateCampgroundRequest{}).Validate())
		assert.Len(t, tags, 4)
	})
}

func TestUpdateCampgroundRequestValidation(t *testing.T) {
	req := UpdateCampgroundRequest{
		ID:           "3e1f54f8-61dd-4c5f-8d29-51c0d09c8a4d",
		Title:        "Misty Canyon",
		Location:     "Moab, Utah",
		Price:        ptr(24.5),
		Description:  "Red rock views.",
		DeleteImages: []string{"yelpcamp/abc123"},
	}
	assert.NoError(t, req.Validate())

	req.DeleteImages = nil
	assert.NoError(t, req.Validate(), "deleteImages is optional")
}

func TestCreateReviewRequestValidation(t *testing.T) {
	valid := CreateReviewRequest{
		CampgroundID: "3e1f54f8-61dd-4c5f-8d29-51c0d09c8a4d",
		Body:         "Great spot, loud bullfrogs.",
		Rating:       4,
	}
	assert.NoError(t, valid.Validate())

	t.Run("rating bounds", func(t *testing.T) {
		for rating, tag := range map[int]string{0: "required", 6: "max", -2: "min"} {
			req := valid
			req.Rating = rating
			tags := failedTags(t, req.Validate())
			assert.Equal(t, tag, tags["Rating"], "rating %d", rating)
		}
	})

	t.Run("body required", func(t *testing.T) {
		req := valid
		req.Body = ""
		tags := failedTags(t, req.Validate())
		assert.Equal(t, "required", tags["Body"])
	})
}

func TestRegisterRequestValidation(t *testing.T) {
	valid := RegisterRequest{
		Email:    "camper@example.com",
		Username: "camper",
		Password: "hunter22!",
	}
	assert.NoError(t, valid.Validate())

	t.Run("invalid email", func(t *testing.T) {
		req := valid
		req.Email = "not-an-email"
		tags := failedTags(t, req.Validate())
		assert.Equal(t, "email", tags["Email"])
	})

	t.Run("short username", func(t *testing.T) {
		req := valid
		req.Username = "ab"
		tags := failedTags(t, req.Validate())
		assert.Equal(t, "min", tags["Username"])
	})

	t.Run("short password", func(t *testing.T) {
		req := valid
		req.Password = "short"
		tags := failedTags(t, req.Validate())
		assert.Equal(t, "min", tags["Password"])
	})
}

func TestLoginRequestValidation(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Username: "camper", Password: "pw"}).Validate())

	tags := failedTags(t, (&LoginRequest{}).Validate())
	assert.Equal(t, "required", tags["Username"])
	assert.Equal(t, "required", tags["Password"])
}
