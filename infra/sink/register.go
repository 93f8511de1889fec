package sink

import (
	"github.com/kilianp07/bikecast/core/factory"
	coresink "github.com/kilianp07/bikecast/core/sink"
	"github.com/kilianp07/bikecast/pkg/export"
)

// init registers built-in sinks.
func init() {
	_ = coresink.Register("nop", func(map[string]any) (coresink.Sink, error) {
		return coresink.NopSink{}, nil
	})

	for _, format := range []string{export.FormatCSV, export.FormatJSONL, export.FormatXLSX} {
		_ = coresink.Register(format, func(conf map[string]any) (coresink.Sink, error) {
			var c struct {
				Path string `json:"path"`
			}
			if err := factory.Decode(conf, &c); err != nil {
				return nil, err
			}
			return NewFileSink(c.Path, format)
		})
	}

	_ = coresink.Register("sqlite", func(conf map[string]any) (coresink.Sink, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "bikecast.db"
		}
		return NewSQLiteSink(c.Path)
	})

	_ = coresink.Register("influx", func(conf map[string]any) (coresink.Sink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})

	_ = coresink.Register("mqtt", func(conf map[string]any) (coresink.Sink, error) {
		var c MQTTConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewMQTTSink(c)
	})
}
