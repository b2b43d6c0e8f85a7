package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/reoring/gviz"
	"github.com/reoring/gviz/chart"
	"github.com/reoring/gviz/codec"
)

func (a *app) getCmd() *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "get SPEC KEY",
		Short: "Print an option by qualified key, e.g. vAxis.title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := chart.ReadSpecFile(args[0])
			if err != nil {
				return err
			}
			out, err := formatOption(spec.Options, args[1], typ)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "read as bool, number, string or date (default: as stored)")
	return cmd
}

func formatOption(b *gviz.Bag, key, typ string) (string, error) {
	switch typ {
	case "":
		v, ok := b.Value(key)
		if !ok {
			return "", nil
		}
		if v.Kind() == gviz.KindList {
			js, err := v.MarshalJSON()
			return string(js), err
		}
		return v.String(), nil
	case "bool", "boolean":
		return strconv.FormatBool(b.GetBoolean(key)), nil
	case "number":
		return strconv.FormatFloat(b.GetNumber(key), 'f', -1, 64), nil
	case "string":
		return b.GetString(key), nil
	case "date":
		d := b.GetDate(key)
		if d.IsZero() {
			return "", nil
		}
		return d.UTC().Format(time.RFC3339Nano), nil
	case "object":
		return b.GetObject(key).ToJSON(), nil
	}
	return "", errors.Newf("unknown type %q", typ)
}

func (a *app) setCmd() *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "set SPEC KEY [VALUE]",
		Short: "Write an option by qualified key and save the spec file in place",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := chart.ReadSpecFile(args[0])
			if err != nil {
				return err
			}
			raw := ""
			if len(args) == 3 {
				raw = args[2]
			} else if typ != "null" {
				return errors.New("VALUE is required unless --type null")
			}
			if err := setOption(spec.Options, args[1], typ, raw); err != nil {
				return err
			}
			return chart.WriteSpecFile(args[0], spec)
		},
	}
	cmd.Flags().StringVar(&typ, "type", "string", "bool, number, string, date, json or null")
	return cmd
}

func setOption(b *gviz.Bag, key, typ, raw string) error {
	switch typ {
	case "null":
		b.SetNull(key)
	case "bool", "boolean":
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return errors.Wrapf(err, "parse %q as bool", raw)
		}
		b.SetBoolean(key, v)
	case "number":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errors.Wrapf(err, "parse %q as number", raw)
		}
		b.SetNumber(key, v)
	case "string":
		b.SetString(key, raw)
	case "date":
		t, ok := codec.ParseDateCell(raw)
		if !ok {
			return errors.WithHint(errors.Newf("parse %q as date", raw), `use RFC3339, 2006-01-02 or Date(2006,0,2)`)
		}
		b.SetDate(key, t)
	case "json":
		v, err := gviz.DecodeJSON([]byte(raw))
		if err != nil {
			return errors.Wrapf(err, "parse %q as JSON", raw)
		}
		b.SetValue(key, v)
	default:
		return errors.Newf("unknown type %q", typ)
	}
	return nil
}
