package grpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName 對應 content-type "application/grpc+json"
const codecName = "json"

// jsonCodec 讓 BankService 的訊息直接使用 Go struct，不需要 protoc 產生程式碼
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return codecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
