package feed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/htmlindex"
)

const trafficPayload = `<?xml version="1.0" encoding="UTF-8"?>
<response>
  <header>
    <resultCode>0</resultCode>
    <resultMsg>NORMAL SERVICE</resultMsg>
  </header>
  <body>
    <itemList>
      <routeId>R001</routeId>
      <linkId>L100</linkId>
      <collDate>202601150900</collDate>
      <spd>78</spd>
      <vol>120</vol>
      <congGrade>A</congGrade>
    </itemList>
    <itemList>
      <routeId>R001</routeId>
      <linkId>L101</linkId>
      <collDate>202601150900</collDate>
      <spd></spd>
      <vol>  </vol>
    </itemList>
  </body>
</response>`

func TestNormalize_Items(t *testing.T) {
	records, err := Normalize([]byte(trafficPayload))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, Record{
		"routeId":   "R001",
		"linkId":    "L100",
		"collDate":  int64(202601150900),
		"spd":       int64(78),
		"vol":       int64(120),
		"congGrade": "A",
	}, records[0])

	// Empty and whitespace-only elements never become fields.
	assert.False(t, records[1].Has("spd"))
	assert.False(t, records[1].Has("vol"))
	assert.Equal(t, "L101", records[1]["linkId"])
}

func TestNormalize_ResultCodeFailure(t *testing.T) {
	payload := `<response>
  <header>
    <resultCode>22</resultCode>
    <resultMsg>LIMITED NUMBER OF SERVICE REQUESTS EXCEEDS</resultMsg>
  </header>
  <body>
    <itemList><routeId>R001</routeId></itemList>
  </body>
</response>`

	records, err := Normalize([]byte(payload))
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, errors.Is(err, ErrRemoteAPI))

	var apiErr *RemoteAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "22", apiErr.Code)
	assert.Equal(t, "LIMITED NUMBER OF SERVICE REQUESTS EXCEEDS", apiErr.Message)
}

func TestNormalize_SuccessWithoutItems(t *testing.T) {
	payload := `<response>
  <header><resultCode>0</resultCode><resultMsg>NORMAL SERVICE</resultMsg></header>
  <body></body>
</response>`

	records, err := Normalize([]byte(payload))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestNormalize_NoHeaderAtAll(t *testing.T) {
	// A payload with items but no result code is taken at face value.
	payload := `<response><body><itemList><laeId>1</laeId></itemList></body></response>`

	records, err := Normalize([]byte(payload))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0]["laeId"])
}

func TestNormalize_MalformedXML(t *testing.T) {
	_, err := Normalize([]byte(`<response><itemList><routeId>R1`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))

	_, err = Normalize([]byte(`{"not":"xml"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestNormalize_NestedElementsInsideItemIgnored(t *testing.T) {
	payload := `<response><itemList><inciDesc>works <b>ahead</b></inciDesc><regSeq>7</regSeq></itemList></response>`

	records, err := Normalize([]byte(payload))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "works", records[0]["inciDesc"])
	assert.Equal(t, int64(7), records[0]["regSeq"])
}

func TestNormalize_EUCKRCharset(t *testing.T) {
	enc, err := htmlindex.Get("euc-kr")
	require.NoError(t, err)

	body := `<?xml version="1.0" encoding="euc-kr"?>
<response>
  <header><resultCode>0</resultCode></header>
  <body><itemList><routeNm>남북축</routeNm><routeId>R009</routeId></itemList></body>
</response>`
	raw, err := enc.NewEncoder().Bytes([]byte(body))
	require.NoError(t, err)

	records, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "남북축", records[0]["routeNm"])
}
