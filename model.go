package idgen

import "encoding/json"

// RequestInfo is the request context forwarded verbatim to the identifier service.
// It carries tracing and authentication metadata; the client never interprets it.
type RequestInfo struct {
	ApiId         string          `json:"apiId,omitempty"`
	Ver           string          `json:"ver,omitempty"`
	Ts            int64           `json:"ts,omitempty"`
	Action        string          `json:"action,omitempty"`
	Did           string          `json:"did,omitempty"`
	Key           string          `json:"key,omitempty"`
	MsgId         string          `json:"msgId,omitempty"`
	AuthToken     string          `json:"authToken,omitempty"`
	CorrelationId string          `json:"correlationId,omitempty"`
	UserInfo      json.RawMessage `json:"userInfo,omitempty"`
}

// IdRequest asks for one identifier of the named sequence.
type IdRequest struct {
	IdName   string `json:"idName"`
	TenantId string `json:"tenantId"`
	Format   string `json:"format"`
}

// IdGenerationRequest is the batch sent in a single call.
type IdGenerationRequest struct {
	RequestInfo *RequestInfo `json:"RequestInfo"`
	IdRequests  []IdRequest  `json:"idRequests"`
}

// ResponseInfo is echoed back by the service.
type ResponseInfo struct {
	ApiId    string `json:"apiId,omitempty"`
	Ver      string `json:"ver,omitempty"`
	Ts       int64  `json:"ts,omitempty"`
	ResMsgId string `json:"resMsgId,omitempty"`
	MsgId    string `json:"msgId,omitempty"`
	Status   string `json:"status,omitempty"`
}

// IdResponse is one generated identifier. IdName and Format are only set
// when the service echoes them.
type IdResponse struct {
	Id     string `json:"id"`
	IdName string `json:"idName,omitempty"`
	Format string `json:"format,omitempty"`
}

// IdGenerationResponse holds the generated identifiers in service order.
type IdGenerationResponse struct {
	ResponseInfo *ResponseInfo `json:"ResponseInfo,omitempty"`
	IdResponses  []IdResponse  `json:"idResponses"`
}

// IDs returns the bare identifier strings, order preserved.
func (r *IdGenerationResponse) IDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.IdResponses))
	for _, v := range r.IdResponses {
		ids = append(ids, v.Id)
	}
	return ids
}

// newBatch builds count identical items; the service answers position by position.
func newBatch(info *RequestInfo, tenantID, idName, format string, count int) *IdGenerationRequest {
	items := make([]IdRequest, count)
	for i := range items {
		items[i] = IdRequest{IdName: idName, TenantId: tenantID, Format: format}
	}
	return &IdGenerationRequest{RequestInfo: info, IdRequests: items}
}
