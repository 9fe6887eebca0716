package txwrap

// RPC 在 encoding=json 下返回的交易体是松散结构（SDK 侧类型为 any），
// 这里定义其最小 JSON 映射，只取解析所需字段。

type rawTransaction struct {
	Signatures []string   `json:"signatures"`
	Message    rawMessage `json:"message"`
}

type rawMessage struct {
	AccountKeys  []string         `json:"accountKeys"`
	Instructions []rawInstruction `json:"instructions"`
}

type rawInstruction struct {
	ProgramIDIndex int    `json:"programIdIndex"`
	Accounts       []int  `json:"accounts"`
	Data           string `json:"data"` // base58
	StackHeight    *int   `json:"stackHeight"`
}
