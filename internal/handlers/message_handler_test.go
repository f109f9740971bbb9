package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestConversationWithReply(t *testing.T) {
	s := newTestServer(t)
	a := s.createUser(t, "ann")
	b := s.createUser(t, "ben")
	c := s.createUser(t, "cat")

	res := s.do(t, http.MethodPost, "/api/messages", echo.Map{"sender": a.ID.Hex(), "receiver": b.ID.Hex(), "content": "hi ben"})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	first := res.Body["message"].(map[string]interface{})
	assert.Nil(t, first["replyTo"])
	firstID := first["id"].(string)

	res = s.do(t, http.MethodPost, "/api/messages", echo.Map{
		"sender": b.ID.Hex(), "receiver": a.ID.Hex(), "content": "hey", "replyTo": firstID,
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	reply := res.Body["message"].(map[string]interface{})
	assert.Equal(t, "hi ben", reply["replyTo"].(map[string]interface{})["content"])

	// unrelated conversation
	s.do(t, http.MethodPost, "/api/messages", echo.Map{"sender": a.ID.Hex(), "receiver": c.ID.Hex(), "content": "hi cat"})

	res = s.do(t, http.MethodGet, "/api/messages/"+a.ID.Hex()+"/"+b.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, res.Code)
	messages := list(t, res.Body["messages"])
	require.Len(t, messages, 2)
	assert.Equal(t, "hi ben", messages[0].(map[string]interface{})["content"])
	second := messages[1].(map[string]interface{})
	assert.Equal(t, "hey", second["content"])
	assert.Equal(t, firstID, second["replyTo"].(map[string]interface{})["id"])
}

func TestSendMessageValidation(t *testing.T) {
	s := newTestServer(t)
	a := s.createUser(t, "ann")
	b := s.createUser(t, "ben")

	res := s.do(t, http.MethodPost, "/api/messages", echo.Map{"sender": a.ID.Hex(), "receiver": b.ID.Hex()})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(t, http.MethodPost, "/api/messages", echo.Map{"sender": a.ID.Hex(), "receiver": primitive.NewObjectID().Hex(), "content": "x"})
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = s.do(t, http.MethodPost, "/api/messages", echo.Map{
		"sender": a.ID.Hex(), "receiver": b.ID.Hex(), "content": "x", "replyTo": primitive.NewObjectID().Hex(),
	})
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = s.multipart(t, "/api/messages", map[string]string{"sender": a.ID.Hex(), "receiver": b.ID.Hex()},
		&upload{filename: "photo.jpg", contentType: "image/jpeg", data: "jpg"})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	msg := res.Body["message"].(map[string]interface{})
	assert.Equal(t, "https://cdn.example/zynq_media/photo", msg["mediaUrl"])
	assert.Equal(t, "image", msg["mediaType"])
}
