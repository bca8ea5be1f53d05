package models

// OrderType: sipariş tipi
type OrderType string

const (
	OrderTypeDineIn      OrderType = "dine_in"
	OrderTypeTakeaway    OrderType = "takeaway"
	OrderTypeDelivery    OrderType = "delivery"
	OrderTypeCompanies   OrderType = "companies"
	OrderTypeTalabat     OrderType = "talabat" // üçüncü parti sipariş platformu
	OrderTypeWebDelivery OrderType = "web_delivery"
	OrderTypeWebTakeaway OrderType = "web_takeaway"
)

var orderTypes = []OrderType{
	OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery, OrderTypeCompanies,
	OrderTypeTalabat, OrderTypeWebDelivery, OrderTypeWebTakeaway,
}

func OrderTypes() []OrderType { return append([]OrderType(nil), orderTypes...) }

func (t OrderType) Valid() bool {
	for _, v := range orderTypes {
		if v == t {
			return true
		}
	}
	return false
}

// RequiresTable: masa numarası zorunlu mu?
func (t OrderType) RequiresTable() bool { return t == OrderTypeDineIn }

func (t OrderType) IsWeb() bool {
	return t == OrderTypeWebDelivery || t == OrderTypeWebTakeaway
}

func (t OrderType) HasDeliveryFee() bool {
	return t == OrderTypeDelivery || t == OrderTypeWebDelivery
}

func (t OrderType) HasServiceCharge() bool { return t == OrderTypeDineIn }

// SupportsOutForDelivery: processing ile completed arasında "yolda" durumu var mı?
func (t OrderType) SupportsOutForDelivery() bool { return t.HasDeliveryFee() }

// InitialStatus: web siparişleri kasiyer onayı bekler
func (t OrderType) InitialStatus() OrderStatus {
	if t.IsWeb() {
		return OrderStatusPending
	}
	return OrderStatusProcessing
}

// NumberScope: web siparişleri kasadaki numaralandırmaya dahil edilmez
func (t OrderType) NumberScope() NumberScope {
	if t.IsWeb() {
		return NumberScopeWeb
	}
	return NumberScopePOS
}

type NumberScope string

const (
	NumberScopePOS NumberScope = "pos"
	NumberScopeWeb NumberScope = "web"
)

// OrderStatus: sipariş durumu
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusOutForDelivery,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// IsModifiable: kalem, indirim ve not değişikliklerine sadece processing izin verir
func (s OrderStatus) IsModifiable() bool { return s == OrderStatusProcessing }

// PaymentStatus: ödeme durumu, ödemeler toplamı ile sipariş toplamından türetilir
type PaymentStatus string

const (
	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusPartialPaid PaymentStatus = "partial_paid"
	PaymentStatusFullPaid    PaymentStatus = "full_paid"
)

// PaymentMethod: ödeme yöntemi
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodCard        PaymentMethod = "card"
	PaymentMethodTalabatCard PaymentMethod = "talabat_card"
)

var paymentMethods = []PaymentMethod{PaymentMethodCash, PaymentMethodCard, PaymentMethodTalabatCard}

// PaymentMethods: sabit sıralı liste (ödeme satırları bu sırayla oluşturulur)
func PaymentMethods() []PaymentMethod { return append([]PaymentMethod(nil), paymentMethods...) }

func (m PaymentMethod) Valid() bool {
	for _, v := range paymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

// DiscountType: indirim tipi
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

func (d DiscountType) Valid() bool {
	return d == DiscountTypePercentage || d == DiscountTypeFixed
}

// MovementOperation: stok hareket yönü
type MovementOperation string

const (
	MovementIncoming MovementOperation = "incoming"
	MovementOutgoing MovementOperation = "outgoing"
)

func (o MovementOperation) Valid() bool {
	return o == MovementIncoming || o == MovementOutgoing
}

// MovementReason: stok hareket sebebi
type MovementReason string

const (
	ReasonSale                  MovementReason = "sale"
	ReasonSaleReversal          MovementReason = "sale_reversal"
	ReasonPurchase              MovementReason = "purchase"
	ReasonPurchaseReturn        MovementReason = "purchase_return"
	ReasonWaste                 MovementReason = "waste"
	ReasonStocktakingAdjustment MovementReason = "stocktaking_adjustment"
)

func (r MovementReason) Valid() bool {
	switch r {
	case ReasonSale, ReasonSaleReversal, ReasonPurchase, ReasonPurchaseReturn,
		ReasonWaste, ReasonStocktakingAdjustment:
		return true
	}
	return false
}

// Operation: sebebe bağlı sabit yön. Sayım düzeltmesinin yönü farka göre
// belirlenir, bu yüzden ok=false döner.
func (r MovementReason) Operation() (MovementOperation, bool) {
	switch r {
	case ReasonSaleReversal, ReasonPurchase:
		return MovementIncoming, true
	case ReasonSale, ReasonPurchaseReturn, ReasonWaste:
		return MovementOutgoing, true
	}
	return "", false
}

// DocumentKind: stok hareketini doğuran belge türü
type DocumentKind string

const (
	DocumentOrder           DocumentKind = "order"
	DocumentPurchaseInvoice DocumentKind = "purchase_invoice"
	DocumentPurchaseReturn  DocumentKind = "purchase_return"
	DocumentWaste           DocumentKind = "waste"
	DocumentStocktaking     DocumentKind = "stocktaking"
)

func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentOrder, DocumentPurchaseInvoice, DocumentPurchaseReturn, DocumentWaste, DocumentStocktaking:
		return true
	}
	return false
}

// DocumentStatus: stok belgesi durumu
type DocumentStatus string

const (
	DocumentDraft  DocumentStatus = "draft"
	DocumentClosed DocumentStatus = "closed"
)
