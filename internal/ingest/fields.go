package ingest

import "strings"

// Header aliases per canonical field. Uploaded files come from several
// operators and mix English, Portuguese (accented and not) and snake_case
// export headers; resolution tries each spelling in order and takes the
// first one present with a non-empty cell. No fuzzy matching: only the
// spellings enumerated here are recognised.

var licensePlateAliases = []string{"License Plate", "Matrícula", "Matricula", "matricula", "license_plate", "plate"}

var allocationAliases = []string{"Allocation", "Alocação", "Alocacao", "alocacao", "allocation", "codigo"}

var reservationAliases = map[string][]string{
	"customer_name":     {"Customer Name", "Nome Cliente", "nome_cliente", "nome"},
	"customer_surname":  {"Customer Last Name", "Apelido Cliente", "lastname_cliente", "apelido"},
	"customer_phone":    {"Phone", "Telefone", "phone_number_cliente", "telefone"},
	"customer_email":    {"Email", "email_cliente", "email"},
	"checkin_expected":  {"Check In", "Data Entrada", "check_in_previsto", "entrada"},
	"checkout_expected": {"Check Out", "Data Saída", "Data Saida", "check_out_previsto", "saida"},
	"booking_price":     {"Booking Price", "Preço Reserva", "Preco Reserva", "booking_price", "preco"},
	"parking_price":     {"Parking Price", "Preço Estacionamento", "Preco Estacionamento", "parking_price"},
	"delivery_price":    {"Delivery Price", "Preço Entrega", "Preco Entrega", "delivery_price"},
	"total_price":       {"Total Price", "Preço Total", "Preco Total", "total_price", "total"},
	"state":             {"Status", "Estado", "estado_reserva_atual", "estado"},
	"park_id":           {"Park", "Parque", "parque_id"},
	"parking_type":      {"Type", "Tipo", "parking_type", "tipo_estacionamento"},
	"return_flight":     {"Return Flight", "Voo Regresso", "return_flight", "voo_regresso"},
}

var cashAliases = map[string][]string{
	"amount":         {"Valor", "Value", "valor", "amount"},
	"payment_method": {"Método", "Metodo", "Method", "metodo_pagamento", "payment_method"},
	"tx_at":          {"Data", "Date", "data_transacao", "date"},
	"notes":          {"Observações", "Observacoes", "Notes", "observacoes", "notas"},
}

var deliveryAliases = map[string][]string{
	"delivered_at": {"Data Entrega", "Delivery Date", "data_entrega", "data"},
	"driver":       {"Condutor", "Driver", "condutor_entrega", "condutor"},
	"notes":        {"Observações", "Observacoes", "Notes", "observacoes", "notas"},
}

var collectionAliases = map[string][]string{
	"collected_at": {"Data Recolha", "Pickup Date", "data_recolha", "data"},
	"driver":       {"Condutor", "Driver", "condutor_recolha", "condutor"},
	"notes":        {"Observações", "Observacoes", "Notes", "observacoes", "notas"},
}

// resolve returns the first non-empty cell among the given header aliases,
// or "" when none is present. Absence is not an error by itself; mandatory
// fields are enforced by the per-kind parsers.
func resolve(row RawRow, aliases []string) string {
	for _, a := range aliases {
		if v, ok := row[a]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// resolveField is resolve over a named alias table.
func resolveField(row RawRow, table map[string][]string, field string) string {
	return resolve(row, table[field])
}
