package dto

import (
	"encoding/json"
	"testing"

	"atelier/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags_Unmarshal(t *testing.T) {
	var req CreateCreationRequest
	body := `{"title":"Schal","materials":"Wolle, Seide ,","sizes":["S","M"],"images":[{"url":"/u/a.jpg","path":"a.jpg"}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	in := req.Input()
	assert.Equal(t, []string{"Wolle", "Seide"}, in.Materials)
	assert.Equal(t, []string{"S", "M"}, in.Sizes)
	assert.Nil(t, in.Colors)
	require.Len(t, in.Images, 1)
	assert.Equal(t, "a.jpg", in.Images[0].StoragePath)
	assert.Equal(t, uuid.Nil, in.Images[0].ID)
}

func TestUpdateCreationRequest_Patch(t *testing.T) {
	imageID := uuid.New()
	body := `{"status":"published","colors":"rot,blau","category_id":null,"images":[{"id":"` + imageID.String() + `","url":"/u/a.jpg","is_primary":true}]}`

	var req UpdateCreationRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	p := req.Patch()
	assert.False(t, p.Title.Set)
	assert.True(t, p.Status.Set)
	assert.Equal(t, models.StatusPublished, p.Status.Value)
	assert.True(t, p.CategoryID.Set)
	assert.Nil(t, p.CategoryID.Value)
	assert.Equal(t, []string{"rot", "blau"}, p.Colors.Value)
	assert.False(t, p.Materials.Set)
	require.True(t, p.Images.Set)
	assert.Equal(t, imageID, p.Images.Value[0].ID)
	assert.True(t, p.Images.Value[0].IsPrimary)
}
