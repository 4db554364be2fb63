package captcha

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math/rand"
	"strings"

	"github.com/exb-museum/exb-admin/pkg/utils"
)

const (
	Width  = 160
	Height = 60

	DefaultLength = 4
)

// 字形坐标系为 10x14, 去掉了 0 1 I O 这类容易混淆的字符
var glyphs = map[byte]string{
	'2': "M1 3 L3 1 L7 1 L9 3 L9 5 L1 13 L9 13",
	'3': "M1 1 L9 1 L5 6 L8 7 L9 10 L7 13 L3 13 L1 11",
	'4': "M7 13 L7 1 L1 9 L9 9",
	'5': "M9 1 L1 1 L1 6 L6 6 L9 8 L9 11 L7 13 L1 13",
	'6': "M8 1 L3 1 L1 4 L1 11 L3 13 L7 13 L9 11 L9 8 L7 6 L1 7",
	'7': "M1 1 L9 1 L4 13",
	'8': "M5 6 L2 4 L2 2 L3 1 L7 1 L8 2 L8 4 L5 6 L1 9 L1 11 L3 13 L7 13 L9 11 L9 9 Z",
	'9': "M9 7 L3 7 L1 5 L1 3 L3 1 L7 1 L9 3 L9 10 L6 13 L2 13",
	'A': "M1 13 L5 1 L9 13 M3 8 L7 8",
	'B': "M1 1 L1 13 L7 13 L9 11 L9 9 L7 7 L1 7 M1 1 L6 1 L8 3 L8 5 L6 7",
	'C': "M9 2 L7 1 L3 1 L1 3 L1 11 L3 13 L7 13 L9 12",
	'D': "M1 1 L1 13 L6 13 L9 10 L9 4 L6 1 Z",
	'E': "M9 1 L1 1 L1 13 L9 13 M1 7 L7 7",
	'F': "M9 1 L1 1 L1 13 M1 7 L7 7",
	'G': "M9 3 L7 1 L3 1 L1 3 L1 11 L3 13 L7 13 L9 11 L9 8 L5 8",
	'H': "M1 1 L1 13 M9 1 L9 13 M1 7 L9 7",
	'J': "M3 1 L9 1 M7 1 L7 11 L5 13 L3 13 L1 11",
	'K': "M1 1 L1 13 M9 1 L1 8 M4 5 L9 13",
	'L': "M1 1 L1 13 L9 13",
	'M': "M1 13 L1 1 L5 8 L9 1 L9 13",
	'N': "M1 13 L1 1 L9 13 L9 1",
	'P': "M1 13 L1 1 L7 1 L9 3 L9 5 L7 7 L1 7",
	'Q': "M3 1 L7 1 L9 3 L9 11 L7 13 L3 13 L1 11 L1 3 Z M6 10 L9 14",
	'R': "M1 13 L1 1 L7 1 L9 3 L9 5 L7 7 L1 7 M5 7 L9 13",
	'S': "M9 2 L7 1 L3 1 L1 3 L1 5 L3 7 L7 7 L9 9 L9 11 L7 13 L3 13 L1 12",
	'T': "M1 1 L9 1 M5 1 L5 13",
	'U': "M1 1 L1 11 L3 13 L7 13 L9 11 L9 1",
	'V': "M1 1 L5 13 L9 1",
	'W': "M1 1 L3 13 L5 6 L7 13 L9 1",
	'X': "M1 1 L9 13 M9 1 L1 13",
	'Y': "M1 1 L5 7 L9 1 M5 7 L5 13",
	'Z': "M1 1 L9 1 L1 13 L9 13",
}

// Alphabet 可用字符
const Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

var palette = []string{"#1f4e79", "#7b2c2c", "#2e6b30", "#5b3a87", "#8a5a00", "#264653"}

type Captcha struct {
	Code  string
	Image []byte
}

// Base64 前端直接拼接 data:image/png;base64, 使用
func (c *Captcha) Base64() string {
	return base64.StdEncoding.EncodeToString(c.Image)
}

// RandomCode 不重复地抽取 n 个字符
func RandomCode(n int) string {
	if n <= 0 || n > len(Alphabet) {
		n = DefaultLength
	}
	idx := rand.Perm(len(Alphabet))[:n]
	res := make([]byte, n)
	for i, v := range idx {
		res[i] = Alphabet[v]
	}
	return string(res)
}

func Generate(length int) (*Captcha, error) {
	code := RandomCode(length)
	img, err := Render(code)
	if err != nil {
		return nil, err
	}
	return &Captcha{Code: code, Image: img}, nil
}

// Render 将验证码绘制为 png
func Render(code string) ([]byte, error) {
	svg, err := RenderSVG(code)
	if err != nil {
		return nil, err
	}
	return utils.ConvertSVGToPNG(svg)
}

func RenderSVG(code string) ([]byte, error) {
	code = strings.ToUpper(code)
	if code == "" {
		return nil, fmt.Errorf("empty captcha code")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, Width, Height, Width, Height)
	fmt.Fprintf(&buf, `<rect x="0" y="0" width="%d" height="%d" fill="#f4f1ea"/>`, Width, Height)

	// 干扰点
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&buf, `<circle cx="%d" cy="%d" r="1.2" fill="%s"/>`, rand.Intn(Width), rand.Intn(Height), palette[rand.Intn(len(palette))])
	}

	step := float64(Width-20) / float64(len(code))
	for i := 0; i < len(code); i++ {
		d, ok := glyphs[code[i]]
		if !ok {
			return nil, fmt.Errorf("unsupported captcha char %q", code[i])
		}
		x := 10 + float64(i)*step + float64(rand.Intn(6))
		y := 6 + float64(rand.Intn(8))
		rotate := rand.Intn(31) - 15
		scale := 3.0 + rand.Float64()*0.3
		fmt.Fprintf(&buf, `<g transform="translate(%.1f %.1f) rotate(%d 5 7) scale(%.2f)"><path d="%s" fill="none" stroke="%s" stroke-width="1.1" stroke-linecap="round" stroke-linejoin="round"/></g>`,
			x, y, rotate, scale, d, palette[rand.Intn(len(palette))])
	}

	// 干扰线
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&buf, `<path d="M%d %d L%d %d" fill="none" stroke="%s" stroke-width="1.5"/>`,
			rand.Intn(Width/4), rand.Intn(Height), Width-rand.Intn(Width/4), rand.Intn(Height), palette[rand.Intn(len(palette))])
	}

	buf.WriteString(`</svg>`)
	return buf.Bytes(), nil
}

// Match 忽略大小写比较
func Match(expected, actual string) bool {
	return expected != "" && strings.EqualFold(strings.TrimSpace(expected), strings.TrimSpace(actual))
}
