package main

import (
	"context"
	"fmt"
	"time"

	"github.com/karirlab/arahkarir-backend/internal/config"
	"github.com/karirlab/arahkarir-backend/internal/database"
	"github.com/karirlab/arahkarir-backend/internal/logger"
	"github.com/karirlab/arahkarir-backend/internal/model"
	"github.com/karirlab/arahkarir-backend/internal/repository"
)

// statements holds the seed question bank, 25 statements per RIASEC
// category. The paid exam draws 20 per category, so this leaves headroom
// for deactivating individual questions without starving the generator.
var statements = map[model.HollandCategory][]string{
	model.CategoryRealistic: {
		"Saya senang memperbaiki peralatan elektronik yang rusak.",
		"Saya menikmati pekerjaan yang melibatkan mesin atau perkakas.",
		"Saya lebih suka bekerja di luar ruangan daripada di belakang meja.",
		"Saya tertarik merakit atau membongkar barang untuk memahami cara kerjanya.",
		"Saya senang berkebun atau merawat tanaman.",
		"Saya menikmati kegiatan fisik seperti olahraga atau mendaki.",
		"Saya suka mengemudikan atau mengoperasikan kendaraan dan alat berat.",
		"Saya tertarik pada pekerjaan konstruksi atau pertukangan.",
		"Saya senang memelihara atau melatih hewan.",
		"Saya lebih percaya hasil kerja tangan daripada teori di atas kertas.",
		"Saya menikmati memasang atau menyambung instalasi listrik sederhana.",
		"Saya suka membuat benda dari kayu, logam, atau bahan lainnya.",
		"Saya tertarik mempelajari cara kerja mesin kendaraan.",
		"Saya senang melakukan pekerjaan yang terlihat hasil nyatanya.",
		"Saya nyaman bekerja dengan peralatan teknis yang presisi.",
		"Saya suka kegiatan berkemah dan bertahan di alam terbuka.",
		"Saya tertarik pada bidang pertanian atau perikanan.",
		"Saya senang merawat dan menyetel sepeda atau motor sendiri.",
		"Saya menikmati pekerjaan lapangan yang menuntut ketahanan fisik.",
		"Saya suka memperbaiki barang di rumah tanpa memanggil tukang.",
		"Saya tertarik mengoperasikan peralatan laboratorium atau bengkel.",
		"Saya lebih memilih tugas praktik daripada tugas menulis.",
		"Saya senang mempelajari denah, sirkuit, atau diagram teknis.",
		"Saya menikmati pekerjaan yang melibatkan keterampilan tangan.",
		"Saya tertarik menjadi teknisi atau operator alat.",
	},
	model.CategoryInvestigative: {
		"Saya senang memecahkan soal matematika atau teka-teki logika.",
		"Saya suka melakukan percobaan untuk menguji sebuah dugaan.",
		"Saya tertarik membaca artikel atau jurnal ilmiah.",
		"Saya senang menganalisis data untuk menemukan pola.",
		"Saya suka bertanya mengapa sesuatu terjadi, bukan hanya bagaimana.",
		"Saya menikmati mata pelajaran sains seperti fisika, kimia, atau biologi.",
		"Saya senang meneliti suatu topik secara mendalam sebelum mengambil kesimpulan.",
		"Saya tertarik pada cara kerja tubuh manusia dan penyakit.",
		"Saya suka menggunakan komputer untuk memecahkan masalah.",
		"Saya menikmati diskusi tentang teori atau gagasan abstrak.",
		"Saya senang mengamati fenomena alam dan mencari penjelasannya.",
		"Saya suka menyusun langkah-langkah sistematis untuk menyelesaikan masalah.",
		"Saya tertarik mempelajari astronomi atau ilmu bumi.",
		"Saya senang membandingkan beberapa sumber sebelum mempercayai informasi.",
		"Saya menikmati permainan strategi yang menuntut berpikir panjang.",
		"Saya suka menulis program atau algoritme.",
		"Saya tertarik pada statistik dan probabilitas.",
		"Saya senang mengerjakan proyek penelitian mandiri.",
		"Saya suka mempelajari bahasa pemrograman atau teknologi baru.",
		"Saya menikmati memecahkan masalah yang belum ada jawabannya.",
		"Saya tertarik pada laboratorium dan peralatan penelitian.",
		"Saya senang menguji ide dengan data, bukan dengan perasaan.",
		"Saya suka membaca tentang penemuan dan inovasi terbaru.",
		"Saya menikmati menyusun hipotesis dan mengujinya.",
		"Saya tertarik menjadi ilmuwan atau analis.",
	},
	model.CategoryArtistic: {
		"Saya senang menggambar, melukis, atau mendesain.",
		"Saya suka menulis cerita, puisi, atau artikel.",
		"Saya menikmati bermain alat musik atau bernyanyi.",
		"Saya tertarik pada fotografi atau videografi.",
		"Saya senang tampil di atas panggung.",
		"Saya suka mengarang melodi atau aransemen musik.",
		"Saya menikmati mendekorasi ruangan agar terlihat indah.",
		"Saya tertarik pada dunia film dan penyutradaraan.",
		"Saya senang mengekspresikan perasaan melalui karya seni.",
		"Saya suka merancang pakaian atau aksesori.",
		"Saya menikmati menari atau koreografi.",
		"Saya tertarik membuat konten kreatif di media sosial.",
		"Saya senang bekerja tanpa aturan yang kaku.",
		"Saya suka mengunjungi pameran seni atau pertunjukan budaya.",
		"Saya menikmati membuat desain grafis atau ilustrasi digital.",
		"Saya tertarik menulis naskah drama atau skenario.",
		"Saya senang bereksperimen dengan warna dan bentuk.",
		"Saya suka memikirkan ide-ide yang tidak biasa.",
		"Saya menikmati membuat kerajinan tangan yang artistik.",
		"Saya tertarik pada tata rias dan penataan gaya.",
		"Saya senang berimajinasi dan melamunkan cerita.",
		"Saya suka memotret momen dengan sudut pandang unik.",
		"Saya menikmati menata taman atau ruang agar estetik.",
		"Saya tertarik menjadi seniman, penulis, atau desainer.",
		"Saya senang mengubah hal biasa menjadi sesuatu yang indah.",
	},
	model.CategorySocial: {
		"Saya senang membantu teman yang kesulitan belajar.",
		"Saya suka mendengarkan masalah orang lain dan memberi dukungan.",
		"Saya menikmati kegiatan sukarela di lingkungan sekitar.",
		"Saya tertarik mengajar atau melatih orang lain.",
		"Saya senang bekerja dalam kelompok daripada sendirian.",
		"Saya suka merawat orang yang sedang sakit.",
		"Saya menikmati menjadi penengah ketika teman berselisih.",
		"Saya tertarik pada kegiatan keagamaan atau sosial kemasyarakatan.",
		"Saya senang membuat orang lain merasa nyaman.",
		"Saya suka menjelaskan sesuatu sampai orang lain paham.",
		"Saya menikmati bermain dan mengasuh anak-anak.",
		"Saya tertarik memahami perasaan dan perilaku orang lain.",
		"Saya senang menyambut orang baru agar cepat akrab.",
		"Saya suka mengorganisir kegiatan amal atau penggalangan dana.",
		"Saya menikmati memberi saran kepada teman yang bingung.",
		"Saya tertarik bekerja di bidang pendidikan atau kesehatan.",
		"Saya senang berbagi pengetahuan tanpa diminta imbalan.",
		"Saya suka bekerja sama menyelesaikan tugas kelompok.",
		"Saya menikmati menjadi pendamping bagi orang yang membutuhkan.",
		"Saya tertarik pada isu-isu kesejahteraan masyarakat.",
		"Saya senang menghibur orang yang sedang sedih.",
		"Saya suka memimpin diskusi agar semua orang didengar.",
		"Saya menikmati melayani orang lain dengan ramah.",
		"Saya tertarik menjadi guru, konselor, atau perawat.",
		"Saya senang membangun hubungan baik dengan banyak orang.",
	},
	model.CategoryEnterprising: {
		"Saya senang memimpin sebuah tim atau organisasi.",
		"Saya suka meyakinkan orang lain untuk mengikuti ide saya.",
		"Saya menikmati berjualan atau menawarkan produk.",
		"Saya tertarik memulai usaha sendiri.",
		"Saya senang berbicara di depan umum.",
		"Saya suka mengambil keputusan penting dalam kelompok.",
		"Saya menikmati bernegosiasi untuk mendapatkan kesepakatan terbaik.",
		"Saya tertarik pada dunia pemasaran dan periklanan.",
		"Saya senang berkompetisi dan berusaha menjadi yang terbaik.",
		"Saya suka mencari peluang bisnis di sekitar saya.",
		"Saya menikmati mengatur strategi untuk mencapai target.",
		"Saya tertarik pada dunia politik atau pemerintahan.",
		"Saya senang memotivasi orang lain untuk bekerja lebih baik.",
		"Saya suka mengambil risiko yang diperhitungkan.",
		"Saya menikmati memimpin rapat atau acara.",
		"Saya tertarik mengelola keuangan dan investasi.",
		"Saya senang membangun jaringan dengan orang-orang baru.",
		"Saya suka mempromosikan kegiatan atau acara.",
		"Saya menikmati tantangan mencapai target penjualan.",
		"Saya tertarik menjadi manajer atau direktur.",
		"Saya senang memberi arahan dan mendelegasikan tugas.",
		"Saya suka berdebat dan mempertahankan pendapat.",
		"Saya menikmati merencanakan pengembangan sebuah usaha.",
		"Saya tertarik pada dunia wirausaha dan start-up.",
		"Saya senang mengambil inisiatif tanpa menunggu perintah.",
	},
	model.CategoryConventional: {
		"Saya senang menyusun arsip dan dokumen dengan rapi.",
		"Saya suka bekerja dengan angka dan pembukuan.",
		"Saya menikmati mengikuti prosedur yang jelas dan teratur.",
		"Saya tertarik membuat jadwal dan daftar kegiatan.",
		"Saya senang memeriksa pekerjaan untuk memastikan tidak ada kesalahan.",
		"Saya suka mencatat pengeluaran dan pemasukan secara detail.",
		"Saya menikmati mengisi formulir atau laporan dengan teliti.",
		"Saya tertarik pada pekerjaan administrasi kantor.",
		"Saya senang menata barang berdasarkan kategori tertentu.",
		"Saya suka bekerja dengan aturan yang pasti daripada yang berubah-ubah.",
		"Saya menikmati mengelola data di komputer dengan terstruktur.",
		"Saya tertarik pada bidang akuntansi atau perpajakan.",
		"Saya senang merapikan meja kerja sebelum memulai tugas.",
		"Saya suka menyalin dan memverifikasi data dengan akurat.",
		"Saya menikmati membuat laporan keuangan sederhana.",
		"Saya tertarik mengoperasikan aplikasi perkantoran.",
		"Saya senang menyelesaikan tugas sesuai tenggat waktu.",
		"Saya suka menyimpan dokumen penting secara sistematis.",
		"Saya menikmati pekerjaan rutin yang hasilnya terukur.",
		"Saya tertarik mengelola inventaris atau stok barang.",
		"Saya senang memastikan setiap detail sesuai ketentuan.",
		"Saya suka menghitung ulang untuk memastikan hasil yang benar.",
		"Saya menikmati menyusun anggaran kegiatan.",
		"Saya tertarik menjadi staf administrasi atau sekretaris.",
		"Saya senang bekerja di lingkungan yang tertib dan terstruktur.",
	},
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	questionRepo := repository.NewQuestionRepository(pool)

	fmt.Println("=== Seeding RIASEC Question Bank ===")

	total := 0
	for _, category := range model.HollandCategories {
		existing, err := questionRepo.CountActiveByCategory(ctx, category)
		if err != nil {
			log.Fatal().Err(err).Str("category", string(category)).Msg("Failed to count existing questions")
		}
		if existing > 0 {
			fmt.Printf("Category %s already has %d active questions, skipping.\n", category, existing)
			continue
		}

		for _, text := range statements[category] {
			q := &model.Question{
				QuestionText: text,
				Category:     category,
				IsActive:     true,
			}
			if err := questionRepo.Create(ctx, q); err != nil {
				fmt.Printf("Error creating question (%s): %v\n", category, err)
				continue
			}
			total++
		}
		fmt.Printf("Seeded %d questions for category %s.\n", len(statements[category]), category)
	}

	fmt.Printf("\nSeed completed! Added %d questions.\n", total)
}
