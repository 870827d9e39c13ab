package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/airq-etl/internal/model"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func sample() []model.UnifiedRecord {
	return []model.UnifiedRecord{{
		LogID:        1,
		Dia:          time.Date(2022, 8, 27, 23, 0, 0, 0, time.UTC),
		PM25A:        model.Float(9),
		PM25B:        model.Float(9.5),
		SensorIDA:    "P39497",
		PM25Promedio: model.Float(9.25),
		RegistrosID:  10,
		PM25:         model.Float(11),
		SensorIDB:    "ANL8",
	}}
}

func TestEncodeCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, sample()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(model.Columns, ","), lines[0])
	assert.Equal(t, "1,2022-08-27 23:00:00,9,9.5,,,,,P39497,9.25,10,11,ANL8", lines[1])
}

func TestEncodeCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, nil))
	assert.Equal(t, strings.Join(model.Columns, ",")+"\n", buf.String())
}

func TestExporter_Key(t *testing.T) {
	at := time.Date(2022, 8, 28, 1, 2, 3, 0, time.FixedZone("CST", -6*3600))

	e := NewWithClient(&fakeS3{}, "bucket", "airq/transformed", nil)
	assert.Equal(t, "airq/transformed/2022/08/28/run-1.csv", e.Key("run-1", at))

	e = NewWithClient(&fakeS3{}, "bucket", "", nil)
	assert.Equal(t, "2022/08/28/run-1.csv", e.Key("run-1", at))
}

func TestExporter_Export(t *testing.T) {
	fake := &fakeS3{}
	e := NewWithClient(fake, "airq", "exports", nil)
	at := time.Date(2022, 8, 28, 0, 0, 0, 0, time.UTC)

	uri, err := e.Export(context.Background(), "run-1", at, sample())
	require.NoError(t, err)
	assert.Equal(t, "s3://airq/exports/2022/08/28/run-1.csv", uri)

	require.Len(t, fake.inputs, 1)
	in := fake.inputs[0]
	assert.Equal(t, "airq", aws.ToString(in.Bucket))
	assert.Equal(t, "exports/2022/08/28/run-1.csv", aws.ToString(in.Key))
	assert.Equal(t, "text/csv", aws.ToString(in.ContentType))
	assert.Equal(t, "run-1", in.Metadata["run-id"])
	assert.Equal(t, int64(len(fake.bodies[0])), aws.ToInt64(in.ContentLength))
	assert.True(t, strings.HasPrefix(string(fake.bodies[0]), "Log_id,Dia,"))
}

func TestExporter_ExportError(t *testing.T) {
	e := NewWithClient(&fakeS3{err: errors.New("boom")}, "airq", "", nil)

	_, err := e.Export(context.Background(), "run-1", time.Now(), sample())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "put s3://airq/")
	assert.Contains(t, err.Error(), "boom")
}

func TestNew(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil)
	require.Error(t, err)

	e, err := New(context.Background(), Config{
		Bucket:          "airq",
		Endpoint:        "http://localhost:9000",
		PathStyle:       true,
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "airq", e.bucket)
	_, ok := e.client.(*s3.Client)
	assert.True(t, ok)
}
