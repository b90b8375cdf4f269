//go:build !js

package pipeline

import (
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

type summaryParquetRow struct {
	Index        int64   `parquet:"name=index, type=INT64"`
	Source       string  `parquet:"name=source, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Type         string  `parquet:"name=type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	TrainingType string  `parquet:"name=training_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DurationH    float64 `parquet:"name=duration_h, type=DOUBLE"`
	DistanceKM   float64 `parquet:"name=distance_km, type=DOUBLE"`
	SpeedKMH     float64 `parquet:"name=speed_kmh, type=DOUBLE"`
	CaloriesKcal float64 `parquet:"name=calories_kcal, type=DOUBLE"`
	Error        string  `parquet:"name=error, type=BYTE_ARRAY, convertedtype=UTF8"`
}

func marshalSummariesParquet(entries []Entry) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(summaryParquetRow), 1)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, e := range entries {
		row := summaryParquetRow{
			Index:  int64(e.Index),
			Source: e.Source,
			Type:   e.Package.Type,
			Error:  e.Error,
		}
		var duration, distance, speed, calories *float64
		if s := e.Summary; s != nil {
			row.TrainingType = s.TrainingType
			duration, distance, speed, calories = &s.Duration, &s.Distance, &s.Speed, &s.Calories
		}
		row.DurationH = valueOrNaN(duration)
		row.DistanceKM = valueOrNaN(distance)
		row.SpeedKMH = valueOrNaN(speed)
		row.CaloriesKcal = valueOrNaN(calories)
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}
