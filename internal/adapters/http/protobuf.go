package http

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// MIMEProtobuf is negotiated through Accept. The body is a serialized
// google.protobuf.Struct mirroring the JSON document.
const MIMEProtobuf = "application/x-protobuf"

// respond writes v as JSON, or as a protobuf Struct when the client prefers it.
func respond(c *fiber.Ctx, status int, v any) error {
	c.Vary(fiber.HeaderAccept)
	if c.Accepts(fiber.MIMEApplicationJSON, MIMEProtobuf) != MIMEProtobuf {
		return c.Status(status).JSON(v)
	}

	body, err := encodeStruct(v)
	if err != nil {
		return errInternal(c, err.Error())
	}
	c.Set(fiber.HeaderContentType, MIMEProtobuf)
	return c.Status(status).Send(body)
}

// encodeStruct converts v to a structpb.Struct through its JSON form so that
// both encodings share field names.
func encodeStruct(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("response is not an object: %w", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("build struct: %w", err)
	}
	return proto.Marshal(s)
}

// DecodeStruct reverses respond's protobuf encoding into a generic map.
func DecodeStruct(b []byte) (map[string]any, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return s.AsMap(), nil
}
