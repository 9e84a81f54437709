package storage

import (
	"encoding/json"
	"fmt"

	"github.com/pakalnivut/backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec serializes a navigator's ordered entry sequence.
type Codec interface {
	Name() string
	Ext() string
	Encode(entries []models.DispatchEntry) ([]byte, error)
	Decode(data []byte) ([]models.DispatchEntry, error)
}

// JSONCodec stores tables as JSON arrays, the format the web client keeps
// in local storage.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }
func (JSONCodec) Ext() string  { return ".json" }

func (JSONCodec) Encode(entries []models.DispatchEntry) ([]byte, error) {
	if entries == nil {
		entries = []models.DispatchEntry{}
	}
	return json.Marshal(entries)
}

func (JSONCodec) Decode(data []byte) ([]models.DispatchEntry, error) {
	var entries []models.DispatchEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// MsgpackCodec stores tables as msgpack arrays.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return "msgpack" }
func (MsgpackCodec) Ext() string  { return ".msgpack" }

func (MsgpackCodec) Encode(entries []models.DispatchEntry) ([]byte, error) {
	if entries == nil {
		entries = []models.DispatchEntry{}
	}
	return msgpack.Marshal(entries)
}

func (MsgpackCodec) Decode(data []byte) ([]models.DispatchEntry, error) {
	var entries []models.DispatchEntry
	if err := msgpack.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CodecByName returns the codec registered under name.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec: %q", name)
	}
}
