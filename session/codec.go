package session

import (
	"github.com/bytedance/sonic"
)

// Codec 负责会话数据与存储格式之间的转换
type Codec interface {
	Encode(values Values) ([]byte, error)
	Decode(data []byte) (Values, error)
}

// JSONCodec 使用与 encoding/json 行为一致的 sonic 配置
type JSONCodec struct{}

func (JSONCodec) Encode(values Values) ([]byte, error) {
	if values == nil {
		values = Values{}
	}
	return sonic.ConfigStd.Marshal(values)
}

func (JSONCodec) Decode(data []byte) (Values, error) {
	var values Values
	if err := sonic.ConfigStd.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = Values{}
	}
	return values, nil
}
