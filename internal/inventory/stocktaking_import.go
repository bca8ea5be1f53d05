package inventory

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/dto"
	"cashier-backend/internal/httpx"
	"cashier-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	trailingQuantity = regexp.MustCompile(`\s+[\d.,]+?\s*(?:kg|gr|lt|ml|g|l)\s*$`)
	numericWord      = regexp.MustCompile(`^[\d.,]+$`)
	numericUnitWord  = regexp.MustCompile(`^[\d.,]+\s*(?:kg|gr|lt|ml|g|l)$`)
	units            = map[string]bool{"kg": true, "gr": true, "lt": true, "ml": true, "g": true, "l": true}
	turkishLetters   = strings.NewReplacer(
		"ç", "c", "Ç", "C",
		"ğ", "g", "Ğ", "G",
		"ı", "i", "İ", "I",
		"ö", "o", "Ö", "O",
		"ş", "s", "Ş", "S",
		"ü", "u", "Ü", "U",
	)
)

// normalizeTurkish: "SÜTLÜ ÇİKOLATA" -> "sutlu cikolata"
func normalizeTurkish(s string) string {
	return strings.ToLower(turkishLetters.Replace(s))
}

// normalizeProductName: Türkçe karakterleri ve miktar eklerini (1KG, 500GR) atar
func normalizeProductName(s string) string {
	normalized := trailingQuantity.ReplaceAllString(normalizeTurkish(s), "")

	words := strings.Fields(normalized)
	cleaned := words[:0]
	for _, w := range words {
		if isNumericOrUnit(w) {
			continue
		}
		cleaned = append(cleaned, w)
	}
	return strings.Join(cleaned, " ")
}

func isNumericOrUnit(word string) bool {
	w := strings.ToLower(strings.TrimSpace(word))
	return numericWord.MatchString(w) || numericUnitWord.MatchString(w) || units[w]
}

// parseSheetDecimal: "1.234,5" (Türkçe) veya "1234.5" biçimindeki hücre değeri
func parseSheetDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "TL", ""))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

// CountRow: sayım listesinden okunan satır
type CountRow struct {
	Line         int             `json:"line"`
	ProductName  string          `json:"product_name"`
	RealQuantity decimal.Decimal `json:"real_quantity"`
	Price        decimal.Decimal `json:"price"`
}

// ParseCountSheet: ilk sayfadaki satırlar, kolonlar: ürün adı | sayılan miktar | birim fiyat (opsiyonel).
// "ÜRÜN" veya "PRODUCT" içeren ilk satır başlık kabul edilir.
func ParseCountSheet(r io.Reader) ([]CountRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Validation("invalid_sheet", "Excel dosyası okunamadı: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.Validation("invalid_sheet", "Excel dosyasında sheet bulunamadı")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperr.Validation("invalid_sheet", "Sheet okunamadı: %v", err)
	}

	start := 0
	if len(rows) > 0 && len(rows[0]) > 0 {
		first := strings.ToUpper(strings.TrimSpace(rows[0][0]))
		if strings.Contains(first, "ÜRÜN") || strings.Contains(first, "PRODUCT") {
			start = 1
		}
	}

	var out []CountRow
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 2 {
			return nil, apperr.Validation("invalid_sheet", "Satır %d: miktar eksik", i+1)
		}
		qty, err := parseSheetDecimal(row[1])
		if err != nil {
			return nil, apperr.Validation("invalid_sheet", "Satır %d: geçersiz miktar %q", i+1, row[1])
		}
		price := decimal.Zero
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			if price, err = parseSheetDecimal(row[2]); err != nil {
				return nil, apperr.Validation("invalid_sheet", "Satır %d: geçersiz fiyat %q", i+1, row[2])
			}
		}
		out = append(out, CountRow{
			Line:         i + 1,
			ProductName:  strings.TrimSpace(row[0]),
			RealQuantity: qty,
			Price:        price,
		})
	}
	if len(out) == 0 {
		return nil, apperr.Validation("invalid_sheet", "Excel dosyası boş")
	}
	return out, nil
}

// MatchCountRows: satırları normalize edilmiş ürün adıyla eşleştirir.
// Fiyat verilmemişse ürünün maliyeti kullanılır.
func MatchCountRows(products []models.Product, rows []CountRow) ([]dto.StocktakingItemInput, []string) {
	byName := make(map[string]models.Product, len(products))
	for _, p := range products {
		byName[normalizeProductName(p.Name)] = p
	}

	items := make([]dto.StocktakingItemInput, 0, len(rows))
	unmatched := make([]string, 0)
	for _, r := range rows {
		p, ok := byName[normalizeProductName(r.ProductName)]
		if !ok {
			unmatched = append(unmatched, r.ProductName)
			continue
		}
		price := r.Price
		if price.IsZero() {
			price = p.Cost
		}
		items = append(items, dto.StocktakingItemInput{ProductID: p.ID, RealQuantity: r.RealQuantity, Price: price})
	}
	return items, unmatched
}

// POST /api/stocktakings/import
// XLSX sayım listesinden taslak sayım belgesi oluşturur
func ImportStocktakingHandler(db *gorm.DB, docs *Documents) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		rows, err := ParseCountSheet(file)
		if err != nil {
			return err
		}

		var products []models.Product
		if err := db.WithContext(c.UserContext()).Find(&products).Error; err != nil {
			return apperr.FromDB(err, "product")
		}
		inputs, unmatched := MatchCountRows(products, rows)
		if len(inputs) == 0 {
			return apperr.Validation("no_products_matched", "Hiçbir ürün eşleşmedi")
		}
		items, err := dto.NewStocktakingItems(inputs)
		if err != nil {
			return err
		}

		st, err := docs.CreateStocktaking(c.UserContext(), DocumentHeader{
			UserID: httpx.Actor(c),
			Notes:  c.FormValue("notes", fileHeader.Filename),
		}, items)
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"stocktaking":        st,
			"matched_count":      len(inputs),
			"unmatched_products": unmatched,
			"message":            fmt.Sprintf("%d ürün sayıma eklendi. %d ürün eşleşmedi.", len(inputs), len(unmatched)),
		})
	}
}
