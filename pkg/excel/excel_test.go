package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/exb-museum/exb-admin/pkg/types"
)

type Audit struct {
	Remark string `excel:"备注"`
}

type row struct {
	ID     int64          `excel:"编号"`
	Name   string         `excel:"名称"`
	Sex    string         `excel:"性别" excelconv:"0=男,1=女,2=未知"`
	Start  types.DateTime `excel:"开始时间"`
	Hidden string
	Audit
}

func TestExportImport(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	data, err := Export("展览数据", []row{
		{ID: 1, Name: "青铜器", Sex: "1", Start: types.NewDateTime(start), Hidden: "x", Audit: Audit{Remark: "r"}},
		{ID: 2, Name: "瓷器"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	rows, err := f.GetRows("展览数据")
	require.NoError(t, err)
	assert.Equal(t, []string{"编号", "名称", "性别", "开始时间", "备注"}, rows[0])
	assert.Equal(t, "女", rows[1][2])
	assert.Equal(t, "2024-03-01 09:30:00", rows[1][3])
	f.Close()

	res, err := Import[row](bytes.NewReader(data), "")
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, int64(1), res[0].ID)
	assert.Equal(t, "1", res[0].Sex)
	assert.Equal(t, "r", res[0].Remark)
	assert.True(t, res[0].Start.Equal(start))
	assert.Empty(t, res[0].Hidden)
	assert.True(t, res[1].Start.IsZero())
}

func TestTemplate(t *testing.T) {
	data, err := Template[row]("模板")
	require.NoError(t, err)

	res, err := Import[row](bytes.NewReader(data), "模板")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestImportBadFile(t *testing.T) {
	_, err := Import[row](bytes.NewReader([]byte("not a xlsx")), "")
	assert.EqualError(t, err, "文件格式不正确")
}

func TestImportBadCell(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetCellValue("Sheet1", "A1", "编号")
	_ = f.SetCellValue("Sheet1", "A2", "abc")
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = Import[row](buf, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "第2行[编号]")
}
