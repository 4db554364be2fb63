package excel

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"

	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/utils"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// 导入文件大小上限
	MaxImportSize = 10 << 20
)

var (
	dateTimeType = reflect.TypeOf(types.DateTime{})
	timeType     = reflect.TypeOf(time.Time{})
)

// column 由 `excel:"名称"` 与可选的 `excelconv:"0=男,1=女"` 描述
type column struct {
	name  string
	index []int
	conv  map[string]string
	rconv map[string]string
}

func parseConverter(exp string) (map[string]string, map[string]string) {
	if exp == "" {
		return nil, nil
	}
	conv := map[string]string{}
	rconv := map[string]string{}
	for _, item := range strings.Split(exp, ",") {
		kv := strings.SplitN(item, "=", 2)
		if len(kv) != 2 {
			continue
		}
		conv[kv[0]] = kv[1]
		rconv[kv[1]] = kv[0]
	}
	return conv, rconv
}

func columnsOf(t reflect.Type) []column {
	var res []column
	var walk func(t reflect.Type, prefix []int)
	walk = func(t reflect.Type, prefix []int) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			idx := append(append([]int{}, prefix...), i)
			if f.Anonymous && f.Type.Kind() == reflect.Struct && f.Type != dateTimeType {
				walk(f.Type, idx)
				continue
			}
			name := f.Tag.Get("excel")
			if name == "" || name == "-" {
				continue
			}
			conv, rconv := parseConverter(f.Tag.Get("excelconv"))
			res = append(res, column{name: name, index: idx, conv: conv, rconv: rconv})
		}
	}
	walk(t, nil)
	return res
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

func newWorkbook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeHeader(f *excelize.File, sheet string, cols []column) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	for i, c := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err = f.SetCellValue(sheet, cell, c.name); err != nil {
			return err
		}
		if err = f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, colName, colName, 18)
	}
	return nil
}

func cellValue(v reflect.Value, c column) any {
	switch v.Type() {
	case dateTimeType:
		return v.Interface().(types.DateTime).String()
	case timeType:
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return ""
		}
		return t.Format(utils.DateTimeLayout)
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	raw := v.Interface()
	if c.conv != nil {
		if label, ok := c.conv[cast.ToString(raw)]; ok {
			return label
		}
	}
	return raw
}

// Export 以结构体的 excel 标签为表头导出
func Export[T any](sheet string, rows []T) ([]byte, error) {
	cols := columnsOf(reflect.TypeOf((*T)(nil)).Elem())
	f, err := newWorkbook(sheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheet = f.GetSheetName(0)

	if err = writeHeader(f, sheet, cols); err != nil {
		return nil, err
	}
	for r, row := range rows {
		rv := reflect.Indirect(reflect.ValueOf(row))
		for i, c := range cols {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err = f.SetCellValue(sheet, cell, cellValue(rv.FieldByIndex(c.index), c)); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Template 只有表头的导入模板
func Template[T any](sheet string) ([]byte, error) {
	return Export[T](sheet, nil)
}

func assign(field reflect.Value, raw string, c column) error {
	raw = strings.TrimSpace(raw)
	if c.rconv != nil {
		if v, ok := c.rconv[raw]; ok {
			raw = v
		}
	}
	if raw == "" {
		return nil
	}

	switch field.Type() {
	case dateTimeType:
		t, _, err := utils.ParseDateOrTime(raw)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(types.NewDateTime(t)))
		return nil
	case timeType:
		t, _, err := utils.ParseDateOrTime(raw)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(t))
		return nil
	}

	if field.Kind() == reflect.Pointer {
		ptr := reflect.New(field.Type().Elem())
		if err := assign(ptr.Elem(), raw, column{name: c.name}); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := cast.ToInt64E(strings.TrimSuffix(raw, ".0"))
		if err != nil {
			return err
		}
		field.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := cast.ToUint64E(strings.TrimSuffix(raw, ".0"))
		if err != nil {
			return err
		}
		field.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return err
		}
		field.SetFloat(v)
	case reflect.Bool:
		v, err := cast.ToBoolE(raw)
		if err != nil {
			return err
		}
		field.SetBool(v)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

// Import 读取第一个表头能对应上的工作表, sheet 非空时优先使用同名工作表
func Import[T any](r io.Reader, sheet string) ([]T, error) {
	content, err := io.ReadAll(io.LimitReader(r, MaxImportSize+1))
	if err != nil {
		return nil, err
	}
	if len(content) > MaxImportSize {
		return nil, fmt.Errorf("文件大小超过限制")
	}
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("文件格式不正确")
	}
	defer f.Close()

	cols := columnsOf(reflect.TypeOf((*T)(nil)).Elem())
	byName := make(map[string]column, len(cols))
	for _, c := range cols {
		byName[c.name] = c
	}

	sheets := f.GetSheetList()
	if sheet != "" {
		for i, s := range sheets {
			if s == sheet {
				sheets[0], sheets[i] = sheets[i], sheets[0]
				break
			}
		}
	}

	for _, s := range sheets {
		rows, err := f.GetRows(s)
		if err != nil || len(rows) == 0 {
			continue
		}
		header := make([]*column, len(rows[0]))
		matched := 0
		for i, h := range rows[0] {
			if c, ok := byName[strings.TrimSpace(h)]; ok {
				header[i] = &c
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		var res []T
		for r, row := range rows[1:] {
			if isBlank(row) {
				continue
			}
			var item T
			iv := reflect.ValueOf(&item).Elem()
			for i, raw := range row {
				if i >= len(header) || header[i] == nil {
					continue
				}
				if err := assign(iv.FieldByIndex(header[i].index), raw, *header[i]); err != nil {
					return nil, fmt.Errorf("第%d行[%s]格式不正确: %w", r+2, header[i].name, err)
				}
			}
			res = append(res, item)
		}
		return res, nil
	}
	return nil, fmt.Errorf("工作表不存在")
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// FileName 导出文件名
func FileName() string {
	return fmt.Sprintf("%d.xlsx", time.Now().Unix())
}

// TemplateName 导入模板文件名
func TemplateName(model string) string {
	return model + "_import_template.xlsx"
}
